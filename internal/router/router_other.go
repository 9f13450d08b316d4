//go:build !linux

package router

func kernelGateway() (string, error) {
	return "", ErrNoGateway
}
