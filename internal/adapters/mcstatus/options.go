package mcstatus

import "time"

type Option func(*Client)

// WithTimeout ignora valores <= 0 para poder pasar la config tal cual.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func withQuery(q queryFunc) Option {
	return func(c *Client) { c.query = q }
}
