package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Search represents search engine configuration
type Search struct {
	IndexPrefix       string         `yaml:"index_prefix" json:"index_prefix"`
	DefaultEngine     string         `yaml:"default_engine" json:"default_engine" validate:"omitempty,oneof=elasticsearch opensearch meilisearch memory"`
	AutoCreateIndex   bool           `yaml:"auto_create_index" json:"auto_create_index"`
	DocumentTypeField string         `yaml:"document_type_field" json:"document_type_field"`
	IndexSettings     *IndexSettings `yaml:"index_settings" json:"index_settings"`
	Breaker           *Breaker       `yaml:"breaker" json:"breaker"`
	Meilisearch       *Meilisearch   `yaml:"meilisearch" json:"meilisearch"`
	Elasticsearch     *Elasticsearch `yaml:"elasticsearch" json:"elasticsearch"`
	OpenSearch        *OpenSearch    `yaml:"opensearch" json:"opensearch"`
	Memory            *Memory        `yaml:"memory" json:"memory"`
}

// IndexSettings represents default index configuration
type IndexSettings struct {
	Shards           int      `yaml:"shards" json:"shards" validate:"gte=0"`
	Replicas         int      `yaml:"replicas" json:"replicas" validate:"gte=0"`
	RefreshInterval  string   `yaml:"refresh_interval" json:"refresh_interval"`
	SearchableFields []string `yaml:"searchable_fields" json:"searchable_fields"`
	FilterableFields []string `yaml:"filterable_fields" json:"filterable_fields"`
	SortableFields   []string `yaml:"sortable_fields" json:"sortable_fields"`
}

// Breaker represents circuit breaker settings for backend calls
type Breaker struct {
	Enabled     bool          `yaml:"enabled" json:"enabled"`
	MaxRequests uint32        `yaml:"max_requests" json:"max_requests"`
	Interval    time.Duration `yaml:"interval" json:"interval"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultDocumentTypeField is the field carrying the document type discriminator
const DefaultDocumentTypeField = "doc_type"

// DefaultSearch returns search configuration with every default applied and no engine configured
func DefaultSearch() *Search {
	return &Search{
		DefaultEngine:     "elasticsearch",
		AutoCreateIndex:   true,
		DocumentTypeField: DefaultDocumentTypeField,
		IndexSettings:     getDefaultIndexSettings(),
		Breaker:           &Breaker{},
		Meilisearch:       &Meilisearch{},
		Elasticsearch:     &Elasticsearch{},
		OpenSearch:        &OpenSearch{},
		Memory:            &Memory{},
	}
}

// getSearchConfig reads search configurations
func getSearchConfig(v *viper.Viper) *Search {
	if !v.IsSet("data.search") {
		return &Search{
			IndexPrefix:       getDefaultIndexPrefix(v),
			DefaultEngine:     "elasticsearch",
			AutoCreateIndex:   true,
			DocumentTypeField: DefaultDocumentTypeField,
			IndexSettings:     getDefaultIndexSettings(),
			Breaker:           getBreakerConfig(v),
			Meilisearch:       getMeilisearchConfigs(v),
			Elasticsearch:     getElasticsearchConfigs(v),
			OpenSearch:        getOpenSearchConfigs(v),
			Memory:            getMemoryConfigs(v),
		}
	}

	return &Search{
		IndexPrefix:       getSearchIndexPrefix(v),
		DefaultEngine:     getStringOrDefault(v, "data.search.default_engine", "elasticsearch"),
		AutoCreateIndex:   getSearchAutoCreateIndex(v),
		DocumentTypeField: getStringOrDefault(v, "data.search.document_type_field", DefaultDocumentTypeField),
		IndexSettings:     getSearchIndexSettings(v),
		Breaker:           getBreakerConfig(v),
		Meilisearch:       getMeilisearchConfigs(v),
		Elasticsearch:     getElasticsearchConfigs(v),
		OpenSearch:        getOpenSearchConfigs(v),
		Memory:            getMemoryConfigs(v),
	}
}

// getSearchIndexPrefix gets search index prefix
func getSearchIndexPrefix(v *viper.Viper) string {
	if v.IsSet("data.search.index_prefix") {
		return v.GetString("data.search.index_prefix")
	}
	return getDefaultIndexPrefix(v)
}

// getDefaultIndexPrefix builds default index prefix from app info
func getDefaultIndexPrefix(v *viper.Viper) string {
	appName := v.GetString("app_name")
	runMode := v.GetString("run_mode")

	if appName != "" && runMode != "" {
		return strings.ToLower(fmt.Sprintf("%s-%s", appName, runMode))
	}

	if appName != "" {
		return strings.ToLower(appName)
	}

	return ""
}

// getSearchAutoCreateIndex gets auto create index setting
func getSearchAutoCreateIndex(v *viper.Viper) bool {
	if v.IsSet("data.search.auto_create_index") {
		return v.GetBool("data.search.auto_create_index")
	}
	return true
}

// getSearchIndexSettings gets search index settings
func getSearchIndexSettings(v *viper.Viper) *IndexSettings {
	if !v.IsSet("data.search.index_settings") {
		return getDefaultIndexSettings()
	}

	def := getDefaultIndexSettings()

	searchableFields := v.GetStringSlice("data.search.index_settings.searchable_fields")
	if len(searchableFields) == 0 {
		searchableFields = def.SearchableFields
	}

	filterableFields := v.GetStringSlice("data.search.index_settings.filterable_fields")
	if len(filterableFields) == 0 {
		filterableFields = def.FilterableFields
	}

	sortableFields := v.GetStringSlice("data.search.index_settings.sortable_fields")
	if len(sortableFields) == 0 {
		sortableFields = def.SortableFields
	}

	replicas := def.Replicas
	if v.IsSet("data.search.index_settings.replicas") {
		replicas = v.GetInt("data.search.index_settings.replicas")
	}

	return &IndexSettings{
		Shards:           getIntOrDefault(v, "data.search.index_settings.shards", def.Shards),
		Replicas:         replicas,
		RefreshInterval:  getStringOrDefault(v, "data.search.index_settings.refresh_interval", def.RefreshInterval),
		SearchableFields: searchableFields,
		FilterableFields: filterableFields,
		SortableFields:   sortableFields,
	}
}

// getDefaultIndexSettings returns default index settings
func getDefaultIndexSettings() *IndexSettings {
	return &IndexSettings{
		Shards:          1,
		Replicas:        0,
		RefreshInterval: "1s",
		SearchableFields: []string{
			"title", "content", "name", "description",
		},
		FilterableFields: []string{
			"id", DefaultDocumentTypeField, "type", "status", "created_at", "updated_at",
		},
		SortableFields: []string{
			"created_at", "updated_at",
		},
	}
}

// getBreakerConfig reads circuit breaker settings
func getBreakerConfig(v *viper.Viper) *Breaker {
	b := &Breaker{
		Enabled:     v.GetBool("data.search.breaker.enabled"),
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
	}
	if v.IsSet("data.search.breaker.max_requests") {
		b.MaxRequests = v.GetUint32("data.search.breaker.max_requests")
	}
	if v.IsSet("data.search.breaker.interval") {
		b.Interval = v.GetDuration("data.search.breaker.interval")
	}
	if v.IsSet("data.search.breaker.timeout") {
		b.Timeout = v.GetDuration("data.search.breaker.timeout")
	}
	return b
}

// OpenSearch opensearch config struct
type OpenSearch struct {
	Addresses       []string `json:"addresses" yaml:"addresses" validate:"omitempty,dive,url"`
	Username        string   `json:"username" yaml:"username"`
	Password        string   `json:"password" yaml:"password"`
	InsecureSkipTLS bool     `json:"insecure_skip_tls" yaml:"insecure_skip_tls"`
}

// getOpenSearchConfigs reads OpenSearch configurations
func getOpenSearchConfigs(v *viper.Viper) *OpenSearch {
	// Prefer `data.search.opensearch.*` but keep backward compatibility with `data.opensearch.*`.
	addresses := v.GetStringSlice("data.search.opensearch.addresses")
	if len(addresses) == 0 {
		addresses = v.GetStringSlice("data.opensearch.addresses")
	}

	username := v.GetString("data.search.opensearch.username")
	if username == "" {
		username = v.GetString("data.opensearch.username")
	}

	password := v.GetString("data.search.opensearch.password")
	if password == "" {
		password = v.GetString("data.opensearch.password")
	}

	insecureSkipTLS := v.GetBool("data.search.opensearch.insecure_skip_tls")
	if !v.IsSet("data.search.opensearch.insecure_skip_tls") {
		insecureSkipTLS = v.GetBool("data.opensearch.insecure_skip_tls")
	}

	return &OpenSearch{
		Addresses:       addresses,
		Username:        username,
		Password:        password,
		InsecureSkipTLS: insecureSkipTLS,
	}
}

// Elasticsearch elasticsearch config struct
type Elasticsearch struct {
	Addresses []string `json:"addresses" yaml:"addresses" validate:"omitempty,dive,url"`
	Username  string   `json:"username" yaml:"username"`
	Password  string   `json:"password" yaml:"password"`
}

// getElasticsearchConfigs reads Elasticsearch configurations
func getElasticsearchConfigs(v *viper.Viper) *Elasticsearch {
	// Prefer `data.search.elasticsearch.*` but keep backward compatibility with `data.elasticsearch.*`.
	addresses := v.GetStringSlice("data.search.elasticsearch.addresses")
	if len(addresses) == 0 {
		addresses = v.GetStringSlice("data.elasticsearch.addresses")
	}

	username := v.GetString("data.search.elasticsearch.username")
	if username == "" {
		username = v.GetString("data.elasticsearch.username")
	}

	password := v.GetString("data.search.elasticsearch.password")
	if password == "" {
		password = v.GetString("data.elasticsearch.password")
	}

	return &Elasticsearch{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	}
}

// Meilisearch meilisearch config struct
type Meilisearch struct {
	Host   string `json:"host" yaml:"host" validate:"omitempty,url"`
	APIKey string `json:"api_key" yaml:"api_key"`
}

// getMeilisearchConfigs reads Meilisearch configurations
func getMeilisearchConfigs(v *viper.Viper) *Meilisearch {
	// Prefer `data.search.meilisearch.*` but keep backward compatibility with `data.meilisearch.*`.
	host := v.GetString("data.search.meilisearch.host")
	if host == "" {
		host = v.GetString("data.meilisearch.host")
	}

	apiKey := v.GetString("data.search.meilisearch.api_key")
	if apiKey == "" {
		apiKey = v.GetString("data.meilisearch.api_key")
	}

	return &Meilisearch{
		Host:   host,
		APIKey: apiKey,
	}
}

// Memory enables the in-process engine
type Memory struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// getMemoryConfigs reads in-process engine configurations
func getMemoryConfigs(v *viper.Viper) *Memory {
	return &Memory{Enabled: v.GetBool("data.search.memory.enabled")}
}
