package config

import (
	"fmt"

	"github.com/adyen/shopcheck/internal/models"
)

// ServerConfig holds configuration for the local storefront
type ServerConfig struct {
	Port string
	// Account is the one customer that can sign in
	Email    string
	Password string
	Shipping models.Amount
}

// LoadServerConfig loads storefront configuration from environment variables
func LoadServerConfig(getenv func(string) string) (ServerConfig, error) {
	config := ServerConfig{
		Port:     getenv("PORT"),
		Email:    getenv("STOREFRONT_EMAIL"),
		Password: getenv("STOREFRONT_PASSWORD"),
		Shipping: 200,
	}
	if config.Port == "" {
		config.Port = "8080" // Default to port 8080
	}
	if config.Email == "" {
		config.Email = "something@something.com"
	}
	if config.Password == "" {
		config.Password = "something"
	}
	if v := getenv("STOREFRONT_SHIPPING_COST"); v != "" {
		shipping, err := models.ParseAmount(v)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("STOREFRONT_SHIPPING_COST: %w", err)
		}
		config.Shipping = shipping
	}

	return config, nil
}
