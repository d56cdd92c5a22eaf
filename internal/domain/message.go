package domain

import "time"

// Colores de embed.
const (
	ColorGreen = 0x2ecc71
	ColorRed   = 0xe74c3c
	ColorBlue  = 0x3498db
	ColorGold  = 0xf1c40f
	ColorGrey  = 0x95a5a6
)

type ControlStyle int

const (
	ControlPrimary ControlStyle = iota
	ControlSuccess
	ControlDanger
	ControlSecondary
)

// Message es el contenido neutral que recibe el gateway.
type Message struct {
	Content  string
	Embed    *Embed
	Controls []Control
	// StripControls quita todos los controles al editar.
	StripControls bool
}

type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Author      string
	AuthorIcon  string
	Footer      string
	Timestamp   time.Time
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

type Control struct {
	ID    string
	Label string
	Emoji string
	Style ControlStyle
}

type MessageRef struct {
	GuildID   string
	ChannelID string
	MessageID string
}

// ContainerSpec describe un canal privado: nadie lo ve salvo Members.
type ContainerSpec struct {
	GuildID    string
	CategoryID string
	Name       string
	Members    []string
}
