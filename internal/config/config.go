package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HuggingFaceConfig holds connection details for the Hugging Face Inference API.
type HuggingFaceConfig struct {
	BaseURL           string  `yaml:"base_url"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	Model             string  `yaml:"model"`
	TimeoutSecs       int     `yaml:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	MaxRetries        int     `yaml:"max_retries"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type      string `yaml:"type"`
	BatchSize int    `yaml:"batch_size"`
	// IngredientBoost weights catalog ingredient terms in the tfidf embedder.
	IngredientBoost float64               `yaml:"ingredient_boost,omitempty"`
	HuggingFace     *HuggingFaceConfig    `yaml:"huggingface,omitempty"`
	OpenAI          *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ClassifierConfig selects the zero-shot intent classifier.
type ClassifierConfig struct {
	Type        string             `yaml:"type"`
	HuggingFace *HuggingFaceConfig `yaml:"huggingface,omitempty"`
}

// ChromaConfig contains connection details for a Chroma server.
type ChromaConfig struct {
	URL string `yaml:"url"`
	// APIVersion is "v2" (default) or "v1" for older servers.
	APIVersion  string `yaml:"api_version,omitempty"`
	Tenant      string `yaml:"tenant,omitempty"`
	Database    string `yaml:"database,omitempty"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type             string        `yaml:"type"`
	Collection       string        `yaml:"collection"`
	RecipeCollection string        `yaml:"recipe_collection"`
	Chroma           *ChromaConfig `yaml:"chroma,omitempty"`
	Qdrant           *QdrantConfig `yaml:"qdrant,omitempty"`
}

// CatalogConfig points at the food catalog. An empty path uses the built-in seed.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig controls query resolution.
type SearchConfig struct {
	TopN int `yaml:"top_n"`
	// ApplyFilters turns detected diet/cuisine intent into a hard
	// metadata filter on the vector query.
	ApplyFilters bool `yaml:"apply_filters"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	// File receives log output instead of stderr. The TUI only logs when set.
	File string `yaml:"file,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Classifier  ClassifierConfig  `yaml:"classifier"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Search      SearchConfig      `yaml:"search"`
	Log         LogConfig         `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/foodrec/config.yaml.
// If neither exists, it writes defaults to ~/.config/foodrec/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "foodrec", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:    EmbedderConfig{Type: "tfidf"},
		Classifier:  ClassifierConfig{Type: "none"},
		VectorStore: VectorStoreConfig{Type: "memory"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.BatchSize == 0 {
		cfg.Embedder.BatchSize = 32
	}
	if cfg.Embedder.Type == "tfidf" && cfg.Embedder.IngredientBoost == 0 {
		cfg.Embedder.IngredientBoost = 1.5
	}
	if cfg.Classifier.Type == "" {
		cfg.Classifier.Type = "none"
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.VectorStore.Collection == "" {
		cfg.VectorStore.Collection = "food_collection"
	}
	if cfg.VectorStore.RecipeCollection == "" {
		cfg.VectorStore.RecipeCollection = "recipe_food"
	}
	if cfg.Search.TopN == 0 {
		cfg.Search.TopN = 5
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Embedder.Type == "huggingface" {
		if cfg.Embedder.HuggingFace == nil {
			cfg.Embedder.HuggingFace = &HuggingFaceConfig{}
		}
		applyHuggingFaceDefaults(cfg.Embedder.HuggingFace, "sentence-transformers/all-MiniLM-L6-v2")
	}
	if cfg.Classifier.Type == "huggingface" {
		if cfg.Classifier.HuggingFace == nil {
			cfg.Classifier.HuggingFace = &HuggingFaceConfig{}
		}
		applyHuggingFaceDefaults(cfg.Classifier.HuggingFace, "facebook/bart-large-mnli")
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		o := cfg.Embedder.OpenAI
		if o.BaseURL == "" {
			o.BaseURL = "https://api.openai.com/v1"
		}
		if o.APIKeyEnv == "" {
			o.APIKeyEnv = "OPENAI_API_KEY"
		}
		if o.Model == "" {
			o.Model = "text-embedding-3-small"
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = 30
		}
		if o.MaxRetries == 0 {
			o.MaxRetries = 5
		}
	}
	if cfg.VectorStore.Type == "chroma" {
		if cfg.VectorStore.Chroma == nil {
			cfg.VectorStore.Chroma = &ChromaConfig{}
		}
		if cfg.VectorStore.Chroma.URL == "" {
			cfg.VectorStore.Chroma.URL = "http://localhost:8000"
		}
		if cfg.VectorStore.Chroma.APIVersion == "" {
			cfg.VectorStore.Chroma.APIVersion = "v2"
		}
		if cfg.VectorStore.Chroma.TimeoutSecs == 0 {
			cfg.VectorStore.Chroma.TimeoutSecs = 15
		}
	}
	if cfg.VectorStore.Type == "qdrant" {
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = &QdrantConfig{}
		}
		if cfg.VectorStore.Qdrant.URL == "" {
			cfg.VectorStore.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
			cfg.VectorStore.Qdrant.TimeoutSecs = 15
		}
	}
}

func applyHuggingFaceDefaults(hf *HuggingFaceConfig, model string) {
	if hf.BaseURL == "" {
		hf.BaseURL = "https://api-inference.huggingface.co"
	}
	if hf.APIKeyEnv == "" {
		hf.APIKeyEnv = "HF_API_KEY"
	}
	if hf.Model == "" {
		hf.Model = model
	}
	if hf.TimeoutSecs == 0 {
		hf.TimeoutSecs = 30
	}
	if hf.RequestsPerSecond == 0 {
		hf.RequestsPerSecond = 5
	}
	if hf.MaxRetries == 0 {
		hf.MaxRetries = 5
	}
}
