//go:build !amd64 && !arm64

package cpufeat

func init() {
	initCapabilities()
}
