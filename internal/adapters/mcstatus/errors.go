package mcstatus

import "fmt"

type AddressError struct {
	Address string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("mcstatus: invalid server address %q", e.Address)
}

// QueryError envuelve el fallo del ping (timeout, conexión rechazada, handshake).
type QueryError struct {
	Address string
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("mcstatus: query %s: %v", e.Address, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
