package title

import "fmt"

type promptPair struct {
	system string
	user   string // format string taking the first message
}

var prompts = map[Language]promptPair{
	Italian: {
		system: "Sei un generatore di titoli. Genera un titolo breve e descrittivo per una conversazione chat basato sul primo messaggio dell'utente. Il titolo deve essere tra 1 e 4 parole massimo. Rispondi solo con il titolo, senza testo aggiuntivo o punteggiatura.",
		user:   "Genera un titolo per una chat che inizia con questo messaggio: \"%s\"",
	},
	English: {
		system: "You are a title generator. Generate a short, descriptive title for a chat conversation based on the user's first message. The title must be between 1 and 4 words maximum. Respond only with the title, no additional text or punctuation.",
		user:   "Generate a title for a chat that starts with this message: \"%s\"",
	},
	French: {
		system: "Vous êtes un générateur de titres. Générez un titre court et descriptif pour une conversation de chat basé sur le premier message de l'utilisateur. Le titre doit contenir entre 1 et 4 mots maximum. Répondez uniquement avec le titre, sans texte supplémentaire ni ponctuation.",
		user:   "Générez un titre pour un chat qui commence par ce message: \"%s\"",
	},
	Spanish: {
		system: "Eres un generador de títulos. Genera un título corto y descriptivo para una conversación de chat basado en el primer mensaje del usuario. El título debe tener entre 1 y 4 palabras máximo. Responde solo con el título, sin texto adicional ni puntuación.",
		user:   "Genera un título para un chat que comienza con este mensaje: \"%s\"",
	},
	German: {
		system: "Sie sind ein Titelgenerator. Erstellen Sie einen kurzen, beschreibenden Titel für ein Chat-Gespräch basierend auf der ersten Nachricht des Benutzers. Der Titel muss zwischen 1 und 4 Wörtern maximal sein. Antworten Sie nur mit dem Titel, ohne zusätzlichen Text oder Interpunktion.",
		user:   "Erstellen Sie einen Titel für einen Chat, der mit dieser Nachricht beginnt: \"%s\"",
	},
}

// Prompts returns the system and user prompt for lang, defaulting to Italian.
func Prompts(lang Language, firstMessage string) (system, user string) {
	p, ok := prompts[lang]
	if !ok {
		p = prompts[Italian]
	}
	return p.system, fmt.Sprintf(p.user, firstMessage)
}
