package domain

// ServerStatus es lo mínimo que mostramos del servidor de juego.
type ServerStatus struct {
	Address     string
	Online      bool
	Players     []string
	PlayerCount int
	MaxPlayers  int
	Version     string
}

func OfflineStatus(address string) ServerStatus {
	return ServerStatus{Address: address}
}
