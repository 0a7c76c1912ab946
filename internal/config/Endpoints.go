package config

import (
	"github.com/rs/zerolog/log"
)

// Endpoint configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// AptosNodeAPI is the Aptos fullnode REST endpoint.
	AptosNodeAPI string
	// CoinsAPI is the DefiLlama coins API used for USD prices.
	CoinsAPI string
	// RegistryAPI is the Liquidswap API serving the Movement pool registry.
	RegistryAPI string
	// MovementNetworkID is the network id passed to the registry.
	MovementNetworkID uint64
)

// loadEndpointConfig loads endpoint configuration from environment variables.
// This function is called by LoadConfig() in General.go.
func loadEndpointConfig() error {
	log.Info().Msg("Loading endpoint configuration from environment variables...")

	var err error

	AptosNodeAPI = getEnvOrDefault("APTOS_NODE_API", "https://fullnode.mainnet.aptoslabs.com")
	CoinsAPI = getEnvOrDefault("COINS_API", "https://coins.llama.fi")
	RegistryAPI = getEnvOrDefault("REGISTRY_API", "https://api.liquidswap.com")

	MovementNetworkID, err = getEnvAsUint64OrDefault("MOVEMENT_NETWORK_ID", 126)
	if err != nil {
		return err
	}

	log.Debug().
		Str("AptosNodeAPI", AptosNodeAPI).
		Str("CoinsAPI", CoinsAPI).
		Str("RegistryAPI", RegistryAPI).
		Uint64("MovementNetworkID", MovementNetworkID).
		Msg("Endpoint configuration loaded successfully.")

	return nil
}
