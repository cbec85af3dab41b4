package envar

import "os"

const (
	LivegifConfig = "LIVEGIF_CONFIG"
	LivegifAddr   = "LIVEGIF_ADDR"
)

func Getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}
