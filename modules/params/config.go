package params

import (
	"fmt"
	"os"
	"time"

	"github.com/polarysfoundation/chainlab/modules/crypto"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Difficulty       int              `yaml:"difficulty"`
	GenesisData      string           `yaml:"genesis_data"`
	GenesisAlgorithm crypto.Algorithm `yaml:"genesis_algorithm"`
	PowEngine        PowEngine        `yaml:"pow"`
	PoaEngine        PoaEngine        `yaml:"poa"`
}

type PowEngine struct {
	ProgressInterval uint64 `yaml:"progress_interval"`
}

type PoaEngine struct {
	Delay       time.Duration `yaml:"delay"`
	MaxJitter   time.Duration `yaml:"max_jitter"`
	Authorities int           `yaml:"authorities"`
	MaxNonce    int           `yaml:"max_nonce"`
}

func (c *PowEngine) String() string {
	return "pow_engine"
}

func (c *PoaEngine) String() string {
	return "poa_engine"
}

// LoadConfig reads a YAML file over the defaults. An empty path returns the
// defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if max := crypto.MinHexLen(); c.Difficulty < 0 || c.Difficulty > max {
		return fmt.Errorf("%w: difficulty %d not in [0, %d]", ErrInvalidConfig, c.Difficulty, max)
	}

	if _, err := crypto.Parse(string(c.GenesisAlgorithm)); err != nil {
		return fmt.Errorf("%w: genesis algorithm: %w", ErrInvalidConfig, err)
	}

	if c.PoaEngine.Delay < 0 || c.PoaEngine.MaxJitter < 0 {
		return fmt.Errorf("%w: negative poa delay", ErrInvalidConfig)
	}

	if c.PoaEngine.Authorities < 1 {
		return fmt.Errorf("%w: poa needs at least one authority", ErrInvalidConfig)
	}

	if c.PoaEngine.MaxNonce < 1 {
		return fmt.Errorf("%w: poa max nonce must be positive", ErrInvalidConfig)
	}

	return nil
}
