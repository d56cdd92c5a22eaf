package discord

import "github.com/bwmarrin/discordgo"

var adminOnly = int64(discordgo.PermissionAdministrator)

var actionChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "ajouter", Value: "add"},
	{Name: "retirer", Value: "remove"},
}

func actionOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "action",
		Description: "Ajouter ou retirer",
		Required:    true,
		Choices:     actionChoices,
	}
}

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "status",
		Description: "Affiche l'état du serveur Minecraft",
	},
	{
		Name:        "suggestion",
		Description: "Proposer une suggestion à la communauté",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "texte",
			Description: "Votre suggestion (sinon un formulaire s'ouvre)",
			MaxLength:   1000,
		}},
	},
	{
		Name:                     "ticketpanel",
		Description:              "Publie le panneau de création de tickets ici",
		DefaultMemberPermissions: &adminOnly,
	},
	{
		Name:                     "suggestionpanel",
		Description:              "Publie le panneau de suggestions ici",
		DefaultMemberPermissions: &adminOnly,
	},
	{
		Name:                     "protect",
		Description:              "Protection des mentions (admins)",
		DefaultMemberPermissions: &adminOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "show", Description: "Voir la configuration"},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "member",
				Description: "Membre qui ne peut pas être mentionné",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Membre", Required: true},
					actionOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "role",
				Description: "Rôle qui ne peut pas être mentionné",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Rôle", Required: true},
					actionOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "whitelist",
				Description: "Rôle autorisé à mentionner",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Rôle", Required: true},
					actionOption(),
				},
			},
		},
	},
}
