package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string         `mapstructure:"env"`
	Cluster  ClusterConfig  `mapstructure:"cluster"`
	Precheck PrecheckConfig `mapstructure:"precheck"`
	SSH      SSHConfig      `mapstructure:"ssh"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Server   ServerConfig   `mapstructure:"server"`
}

type ClusterConfig struct {
	Name   string `mapstructure:"name"`
	Domain string `mapstructure:"domain"`
}

type VIPConfig struct {
	API     string `mapstructure:"api"`
	Ingress string `mapstructure:"ingress"`
}

type PrecheckConfig struct {
	Nodes          []string      `mapstructure:"nodes"`
	VIPs           VIPConfig     `mapstructure:"vips"`
	DNSNames       []string      `mapstructure:"dns_names"`
	DNSServer      string        `mapstructure:"dns_server"`
	RequiredPorts  []int         `mapstructure:"required_ports"`
	ExpectedMTU    int           `mapstructure:"expected_mtu"`
	MTUInterface   string        `mapstructure:"mtu_interface"`
	MaxClockOffset time.Duration `mapstructure:"max_clock_offset"`
	GlobalTimeout  time.Duration `mapstructure:"global_timeout"`
	CheckTimeout   time.Duration `mapstructure:"check_timeout"`
	MaxParallel    int           `mapstructure:"max_parallel"`
	PingCount      int           `mapstructure:"ping_count"`
	InsecureTLS    bool          `mapstructure:"insecure_tls"`
}

type SSHConfig struct {
	User           string        `mapstructure:"user"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// Load reads ./config/local.yaml from the default search paths with
// environment variables taking precedence.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads configuration from an explicit file path. An empty
// path falls back to the default search paths.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.SetConfigName("local")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("cluster.name", "")
	v.SetDefault("cluster.domain", "")

	v.SetDefault("precheck.required_ports", []int{6443, 22623, 443})
	v.SetDefault("precheck.expected_mtu", 1500)
	v.SetDefault("precheck.mtu_interface", "eth0")
	v.SetDefault("precheck.max_clock_offset", "500ms")
	v.SetDefault("precheck.global_timeout", "2m")
	v.SetDefault("precheck.check_timeout", "15s")
	v.SetDefault("precheck.max_parallel", 8)
	v.SetDefault("precheck.ping_count", 3)
	v.SetDefault("precheck.insecure_tls", true)

	v.SetDefault("ssh.user", "core")
	v.SetDefault("ssh.connect_timeout", "5s")

	v.SetDefault("kafka.topic", "precheck-reports")

	v.SetDefault("server.port", "8081")
}

// Validate rejects configurations that cannot produce a meaningful
// run, before any check starts.
func (c *Config) Validate() error {
	if len(c.Precheck.Nodes) == 0 {
		return fmt.Errorf("config: precheck.nodes is empty, nothing to validate")
	}
	if c.Precheck.ExpectedMTU <= 0 {
		return fmt.Errorf("config: precheck.expected_mtu must be positive, got %d", c.Precheck.ExpectedMTU)
	}
	if c.Precheck.MaxParallel <= 0 {
		return fmt.Errorf("config: precheck.max_parallel must be positive, got %d", c.Precheck.MaxParallel)
	}
	if c.Precheck.GlobalTimeout <= 0 {
		return fmt.Errorf("config: precheck.global_timeout must be positive, got %v", c.Precheck.GlobalTimeout)
	}
	for _, p := range c.Precheck.RequiredPorts {
		if p <= 0 || p > 65535 {
			return fmt.Errorf("config: invalid port %d in precheck.required_ports", p)
		}
	}
	return nil
}

// APIEndpoint returns the cluster API health URL derived from the
// cluster identity, or "" when either part is missing.
func (c *Config) APIEndpoint() string {
	if c.Cluster.Name == "" || c.Cluster.Domain == "" {
		return ""
	}
	return fmt.Sprintf("https://api.%s.%s:6443/readyz", c.Cluster.Name, c.Cluster.Domain)
}

// IngressEndpoint returns the application ingress URL, or "" when the
// cluster identity is missing.
func (c *Config) IngressEndpoint() string {
	if c.Cluster.Name == "" || c.Cluster.Domain == "" {
		return ""
	}
	return fmt.Sprintf("https://console-openshift-console.apps.%s.%s", c.Cluster.Name, c.Cluster.Domain)
}
