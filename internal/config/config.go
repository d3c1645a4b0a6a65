package config

import (
	"log"
	"strconv"
	"strings"
	"time"

	"distance-shipping/internal/models"

	"github.com/spf13/viper"
)

// Config holds everything loaded from the environment: server wiring plus
// the shipping method instance settings owned by the platform's settings
// collaborator.
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`

	InstanceID       string  `mapstructure:"METHOD_INSTANCE_ID"`
	ShippingLabel    string  `mapstructure:"SHIPPING_LABEL"`
	APIKey           string  `mapstructure:"DISTANCE_API_KEY"`
	OriginLat        float64 `mapstructure:"ORIGIN_LAT"`
	OriginLng        float64 `mapstructure:"ORIGIN_LNG"`
	TravelMode       string  `mapstructure:"TRAVEL_MODE"`
	RouteRestriction string  `mapstructure:"ROUTE_RESTRICTION"`
	DistanceUnit     string  `mapstructure:"DISTANCE_UNIT"`
	PreferredRoute   string  `mapstructure:"PREFERRED_ROUTE"`
	RoundUpDistance  bool    `mapstructure:"ROUND_UP_DISTANCE"`
	ShowDistance     bool    `mapstructure:"SHOW_DISTANCE"`
	AddressPicker    bool    `mapstructure:"ENABLE_ADDRESS_PICKER"`
	Language         string  `mapstructure:"LANGUAGE"`
	DebugMode        bool    `mapstructure:"DEBUG_MODE"`
	ProLicense       bool    `mapstructure:"PRO_LICENSE"`
	CacheTTLMinutes  int     `mapstructure:"CACHE_TTL_MINUTES"`
	ShippingClasses  string  `mapstructure:"SHIPPING_CLASS_IDS"`
}

// LoadConfig reads configuration from a .env file and the environment.
func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("METHOD_INSTANCE_ID", "default")
	viper.SetDefault("SHIPPING_LABEL", "Distance Based Shipping")
	viper.SetDefault("TRAVEL_MODE", string(models.TravelModeDriving))
	viper.SetDefault("DISTANCE_UNIT", string(models.UnitMetric))
	viper.SetDefault("PREFERRED_ROUTE", string(models.ShortestDistance))
	viper.SetDefault("LANGUAGE", "en")
	viper.SetDefault("CACHE_TTL_MINUTES", 60)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No .env file found.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MethodSettings builds the immutable per-calculation settings struct.
func (c *Config) MethodSettings() models.MethodSettings {
	return models.MethodSettings{
		ShippingLabel:       c.ShippingLabel,
		APIKey:              c.APIKey,
		Origin:              models.Coordinate{Lat: c.OriginLat, Lng: c.OriginLng},
		TravelMode:          models.TravelMode(c.TravelMode),
		RouteRestriction:    models.RouteRestriction(c.RouteRestriction),
		DistanceUnit:        models.DistanceUnit(c.DistanceUnit),
		PreferredRoute:      models.PreferredRoute(c.PreferredRoute),
		RoundUpDistance:     c.RoundUpDistance,
		ShowDistance:        c.ShowDistance,
		EnableAddressPicker: c.AddressPicker,
		Language:            c.Language,
		DebugMode:           c.DebugMode,
		ProLicense:          c.ProLicense,
		CacheTTL:            time.Duration(c.CacheTTLMinutes) * time.Minute,
	}
}

// ShippingClassIDs parses the comma-separated shipping class id list.
func (c *Config) ShippingClassIDs() []int {
	if strings.TrimSpace(c.ShippingClasses) == "" {
		return nil
	}

	var ids []int
	for _, part := range strings.Split(c.ShippingClasses, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			log.Printf("Ignoring invalid shipping class id %q", part)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
