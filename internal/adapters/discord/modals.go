package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/horizonrelax/community-bot/internal/app/service"
)

const (
	modalRating     = "rating_modal"
	modalSuggestion = "suggestion_modal"

	fieldRating     = "rating"
	fieldComment    = "comment"
	fieldSuggestion = "suggestion"
)

type modalField struct {
	id          string
	label       string
	placeholder string
	paragraph   bool
	required    bool
	minLength   int
	maxLength   int
}

type modalForm struct {
	customID string
	title    string
	fields   []modalField
}

// rows: un TextInput por fila, como exige Discord.
func (m modalForm) rows() []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(m.fields))
	for _, f := range m.fields {
		style := discordgo.TextInputShort
		if f.paragraph {
			style = discordgo.TextInputParagraph
		}
		out = append(out, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    f.id,
				Label:       f.label,
				Style:       style,
				Placeholder: f.placeholder,
				Required:    f.required,
				MinLength:   f.minLength,
				MaxLength:   f.maxLength,
			},
		}})
	}
	return out
}

func ratingModal() modalForm {
	return modalForm{
		customID: modalRating,
		title:    "Notation du support",
		fields: []modalField{
			{id: fieldRating, label: "Note sur 5 étoiles (1-5)", placeholder: "Entrez un nombre entre 1 et 5", required: true, minLength: 1, maxLength: 1},
			{id: fieldComment, label: "Commentaire (optionnel)", placeholder: "Votre avis sur le support reçu", paragraph: true, maxLength: 1000},
		},
	}
}

func suggestionModal() modalForm {
	return modalForm{
		customID: modalSuggestion,
		title:    "Nouvelle suggestion",
		fields: []modalField{
			{id: fieldSuggestion, label: "Votre suggestion", placeholder: "Décrivez votre idée", paragraph: true, required: true, minLength: 1, maxLength: service.MaxSuggestionLength},
		},
	}
}

// modalValues aplana las filas del submit a custom_id -> valor.
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	out := map[string]string{}
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if in, ok := inner.(*discordgo.TextInput); ok {
				out[in.CustomID] = in.Value
			}
		}
	}
	return out
}
