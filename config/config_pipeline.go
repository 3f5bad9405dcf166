package config

// PipelineConfig tunes the per-image fan-out and the translation cache.
type PipelineConfig struct {
	Workers int
	Cache   int
}

type pipelineConfig struct {
	Workers int `yaml:"workers"`
	Cache   int `yaml:"cache"`
}

func (cfg *Config) registerPipeline(f *configFile) error {
	if f.Pipeline.IsZero() {
		return nil
	}

	var config pipelineConfig

	if err := f.Pipeline.Decode(&config); err != nil {
		return err
	}

	cfg.Pipeline = PipelineConfig{
		Workers: config.Workers,
		Cache:   config.Cache,
	}

	return nil
}
