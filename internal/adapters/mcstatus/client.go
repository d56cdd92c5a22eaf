package mcstatus

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/mcstatus-io/mcutil/v4/response"
	"github.com/mcstatus-io/mcutil/v4/status"

	"github.com/horizonrelax/community-bot/internal/domain"
)

const (
	defaultPort    = 25565
	defaultTimeout = 5 * time.Second
)

// ping es lo que usamos de la respuesta del servidor.
type ping struct {
	Online  int
	Max     int
	Sample  []string
	Version string
}

// queryFunc hace el ping; los tests ponen la suya.
type queryFunc func(ctx context.Context, host string, port uint16) (ping, error)

// Client consulta directamente al servidor Java (Server List Ping), sin
// pasar por APIs de terceros con caché.
type Client struct {
	query   queryFunc
	timeout time.Duration
}

func New(opts ...Option) *Client {
	c := &Client{
		query:   modernPing,
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Status hace un ping al servidor. Cualquier fallo de red vuelve como error;
// StatusService lo muestra como offline.
func (c *Client) Status(ctx context.Context, address string) (domain.ServerStatus, error) {
	host, port, err := splitAddress(address)
	if err != nil {
		return domain.ServerStatus{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.query(ctx, host, port)
	if err != nil {
		return domain.ServerStatus{}, &QueryError{Address: address, Err: err}
	}
	return toServerStatus(address, res), nil
}

func modernPing(ctx context.Context, host string, port uint16) (ping, error) {
	res, err := status.Modern(ctx, host, port)
	if err != nil {
		return ping{}, err
	}
	return fromJava(res), nil
}

func fromJava(res *response.StatusModern) ping {
	var p ping
	if res == nil {
		return p
	}
	p.Version = res.Version.Name.Clean
	if res.Players.Online != nil {
		p.Online = int(*res.Players.Online)
	}
	if res.Players.Max != nil {
		p.Max = int(*res.Players.Max)
	}
	for _, s := range res.Players.Sample {
		p.Sample = append(p.Sample, s.Name.Clean)
	}
	return p
}

func toServerStatus(address string, p ping) domain.ServerStatus {
	st := domain.ServerStatus{
		Address:     address,
		Online:      true,
		PlayerCount: p.Online,
		MaxPlayers:  p.Max,
		Version:     p.Version,
	}
	// el sample puede venir vacío o truncado aunque haya gente conectada
	for _, name := range p.Sample {
		if name = strings.TrimSpace(name); name != "" {
			st.Players = append(st.Players, name)
		}
	}
	return st
}

// splitAddress acepta "host" o "host:puerto".
func splitAddress(address string) (string, uint16, error) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return "", 0, &AddressError{Address: address}
	}
	if !strings.Contains(addr, ":") {
		return addr, defaultPort, nil
	}
	host, rawPort, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return "", 0, &AddressError{Address: address}
	}
	port, err := strconv.ParseUint(rawPort, 10, 16)
	if err != nil || port == 0 {
		return "", 0, &AddressError{Address: address}
	}
	return host, uint16(port), nil
}
