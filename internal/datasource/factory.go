package datasource

import (
	"fmt"
	"log"

	"github.com/yourusername/prop-insight/internal/config"
)

// Factory creates DataSource implementations based on configuration
type Factory struct {
	logger *log.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *log.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// NewDataSource creates a new DataSource based on the provided configuration
func (f *Factory) NewDataSource(cfg config.DataSourceConfig, httpClient *RateLimitedHTTPClient) (DataSource, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	switch cfg.Name {
	case statsFeedSourceName:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("stats feed API key is required")
		}
		baseURL := cfg.APIURL
		if baseURL == "" && f.config != nil {
			baseURL = f.config.StatsFeed.APIURL
		}
		if baseURL == "" {
			return nil, fmt.Errorf("stats feed API URL is required")
		}
		return NewStatsFeedClient(httpClient, baseURL, cfg.APIKey, cfg.Enabled, f.logger), nil

	case statsArchiveSourceName:
		if cfg.APIURL == "" {
			return nil, fmt.Errorf("stats archive API URL is required")
		}
		return NewStatsArchiveClient(httpClient, cfg.APIURL, cfg.APIKey, cfg.Enabled, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Name)
	}
}

// NewDataSources creates all enabled data sources from configuration
func (f *Factory) NewDataSources(dataCfg config.IngestionConfig, httpClient *RateLimitedHTTPClient) ([]DataSource, error) {
	var sources []DataSource

	for _, srcCfg := range dataCfg.Sources {
		if !srcCfg.Enabled {
			if f.logger != nil {
				f.logger.Printf("Skipping disabled data source: %s", srcCfg.Name)
			}
			continue
		}

		source, err := f.NewDataSource(srcCfg, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create data source %s: %w", srcCfg.Name, err)
		}

		sources = append(sources, source)
		if f.logger != nil {
			f.logger.Printf("Created data source: %s", srcCfg.Name)
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no enabled data sources configured")
	}

	return sources, nil
}
