// Package config loads the application configuration with Viper. YAML, JSON
// and TOML files are supported and environment variables override file
// values, with dots replaced by underscores:
//
//	export DATA_SEARCH_INDEX_PREFIX=staging
//
// # Configuration Format
//
//	app_name: catalog
//	run_mode: dev
//
//	logger:
//	  level: 4
//	  format: json
//	  output: stdout
//
//	data:
//	  search:
//	    index_prefix: catalog-dev
//	    default_engine: elasticsearch
//	    auto_create_index: true
//	    elasticsearch:
//	      addresses: ["http://localhost:9200"]
//	    breaker:
//	      enabled: true
//
//	paging:
//	  default_page_size: 50
//	  max_page_size: 10000
//
//	observes:
//	  tracer:
//	    endpoint: localhost:4317
//
// # Hot Reloading
//
// Watch the loaded file and react to changes:
//
//	config.Watch(func(cfg *config.Config) {
//	    // apply the new configuration
//	}, nil)
//
// Missing values fall back to defaults through the get*OrDefault helpers.
package config
