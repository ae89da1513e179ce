package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultMetricsEnabled        = false    // 是否启用Metrics
	DefaultMetricsRuntimeMetrics = true     // 是否收集运行时指标
	DefaultMetricsPprof          = false    // 是否注册pprof端点
	DefaultMetricsServiceName    = "muzicc" // 服务名称
)

// MetricsConfig Metrics相关配置.
type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`         // 是否启用Metrics
	ServiceName    string `mapstructure:"service_name"`    // 服务名称
	RuntimeMetrics bool   `mapstructure:"runtime_metrics"` // 是否收集运行时指标
	Pprof          bool   `mapstructure:"pprof"`           // 是否注册pprof端点
}

// setDefaults 设置Metrics配置的默认值.
func (c *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", DefaultMetricsEnabled)
	v.SetDefault("metrics.service_name", DefaultMetricsServiceName)
	v.SetDefault("metrics.runtime_metrics", DefaultMetricsRuntimeMetrics)
	v.SetDefault("metrics.pprof", DefaultMetricsPprof)
}
