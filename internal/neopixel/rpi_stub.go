//go:build !pi

package neopixel

import "fmt"

func newWS281xEngine(_ Options) (wsEngine, error) {
	return nil, fmt.Errorf("the %s driver is not available in this build, rebuild with -tags pi", BackendWS281x)
}
