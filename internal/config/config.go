package config

import (
	"fmt"
	"strings"

	"github.com/ougirez/energy-mock/internal/pkg/constants"
	"github.com/ougirez/energy-mock/internal/pkg/store/xpgx"
	"github.com/ougirez/energy-mock/internal/service/house"
	"github.com/spf13/viper"
)

type Config struct {
	Port        int
	UseDatabase bool
	DB          xpgx.Config
	DataDir     string

	HouseEncoding string
	HousePrefix   string
	HouseMarker   string

	ServiceProvider string
	EmptyAsNotFound bool

	LogLevel       string
	LogDevelopment bool
}

// envBindings keeps the variable names already used by existing deployments.
var envBindings = map[string][]string{
	constants.ViperPortKey:        {"PORT"},
	constants.ViperUseDatabaseKey: {"USE_DATABASE"},
	constants.ViperDBHostKey:      {"MCI_DB_HOST", "MCI_MYSQL_HOST"},
	constants.ViperDBPortKey:      {"MCI_DB_PORT", "MCI_MYSQL_PORT"},
	constants.ViperDBUserKey:      {"MCI_DB_USER", "MCI_MYSQL_USER"},
	constants.ViperDBPasswordKey:  {"MCI_DB_PASSWORD", "MCI_MYSQL_PASSWORD"},
	constants.ViperDBNameKey:      {"MCI_DB_DATABASE", "MCI_MYSQL_DATABASE"},
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(constants.ViperPortKey, 3000)
	v.SetDefault(constants.ViperUseDatabaseKey, false)
	v.SetDefault(constants.ViperDBHostKey, "127.0.0.1")
	v.SetDefault(constants.ViperDBPortKey, 5432)
	v.SetDefault(constants.ViperDBMaxConnsKey, 10)
	v.SetDefault(constants.ViperCSVDataDirKey, "test_api_data")
	v.SetDefault(constants.ViperHouseEncodingKey, house.EncodingNumeric)
	v.SetDefault(constants.ViperHousePrefixKey, house.DefaultPrefix)
	v.SetDefault(constants.ViperHouseMarkerKey, house.DefaultMarker)
	v.SetDefault(constants.ViperServiceProviderKey, "9991")
	v.SetDefault(constants.ViperEmptyNotFoundKey, true)
	v.SetDefault(constants.ViperLogLevelKey, "info")
	v.SetDefault(constants.ViperLogDevelopmentKey, false)
}

// Bind wires defaults and environment variables into v. Nested keys are also
// reachable as upper case env vars, e.g. csv.data_dir as CSV_DATA_DIR.
func Bind(v *viper.Viper) error {
	SetDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("BindEnv %s: %w", key, err)
		}
	}

	return nil
}

// Load resolves the configuration from v, which must have been through Bind.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:        v.GetInt(constants.ViperPortKey),
		UseDatabase: v.GetBool(constants.ViperUseDatabaseKey),
		DB: xpgx.Config{
			Host:     v.GetString(constants.ViperDBHostKey),
			Port:     v.GetInt(constants.ViperDBPortKey),
			User:     v.GetString(constants.ViperDBUserKey),
			Password: v.GetString(constants.ViperDBPasswordKey),
			Database: v.GetString(constants.ViperDBNameKey),
			MaxConns: v.GetInt32(constants.ViperDBMaxConnsKey),
		},
		DataDir:         v.GetString(constants.ViperCSVDataDirKey),
		HouseEncoding:   v.GetString(constants.ViperHouseEncodingKey),
		HousePrefix:     v.GetString(constants.ViperHousePrefixKey),
		HouseMarker:     v.GetString(constants.ViperHouseMarkerKey),
		ServiceProvider: v.GetString(constants.ViperServiceProviderKey),
		EmptyAsNotFound: v.GetBool(constants.ViperEmptyNotFoundKey),
		LogLevel:        v.GetString(constants.ViperLogLevelKey),
		LogDevelopment:  v.GetBool(constants.ViperLogDevelopmentKey),
	}

	if cfg.ServiceProvider == "" {
		return nil, fmt.Errorf("%s must not be empty", constants.ViperServiceProviderKey)
	}

	return cfg, nil
}

// ValidateDB reports missing credentials. Only database mode and the importer need them.
func (c *Config) ValidateDB() error {
	missing := make([]string, 0, 3)
	if c.DB.User == "" {
		missing = append(missing, "user")
	}
	if c.DB.Password == "" {
		missing = append(missing, "password")
	}
	if c.DB.Database == "" {
		missing = append(missing, "database")
	}
	if len(missing) > 0 {
		return fmt.Errorf("database credentials not set: %s", strings.Join(missing, ", "))
	}
	return nil
}
