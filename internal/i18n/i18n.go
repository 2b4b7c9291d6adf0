// Package i18n holds the localization table shared by the API and the Gemini prompts.
package i18n

import "pp_quest/internal/model"

// Denial keys name the user-facing refusal messages of the quest engine.
const (
	DenyPremiumOnly   = "denyPremiumOnly"
	DenyResetLimit    = "denyResetLimit"
	DenyNoSkips       = "denyNoSkips"
	DenyInvalidTarget = "denyInvalidTarget"
	DenyVerifyFailed  = "denyVerifyFailed"
	DenyBadEvidence   = "denyBadEvidence"
)

var promptNames = map[model.Language]string{
	model.LanguageEnglish: "English",
	model.LanguageSerbian: "Serbian (Serbian language/srpski)",
	model.LanguageSpanish: "Spanish",
	model.LanguageFrench:  "French",
}

var translations = map[model.Language]map[string]string{
	model.LanguageEnglish: {
		"sync":            "Network Synchronized",
		"premium":         "Premium Active",
		"goPremium":       "Go Premium",
		"skips":           "Skips Available",
		"resets":          "Resets Left",
		"pending":         "PENDING",
		"available":       "Deployments",
		"stats":           "Profile Intelligence",
		"share":           "Share Stats",
		"cleared":         "Quests",
		"streak":          "Streak",
		"peak":            "Peak",
		"details":         "Clearance Details",
		"archive":         "Mission Archive",
		"grid":            "Grid",
		"intel":           "Intel",
		"logs":            "LOGS",
		"copied":          "Link copied to clipboard!",
		DenyPremiumOnly:   "Resets are for Premium agents only! Use Skips instead.",
		DenyResetLimit:    "Daily reset limit reached!",
		DenyNoSkips:       "No skips left!",
		DenyInvalidTarget: "This quest can no longer be submitted.",
		DenyVerifyFailed:  "Something went wrong with verification.",
		DenyBadEvidence:   "Please provide the evidence this quest asks for.",
	},
	model.LanguageSerbian: {
		"sync":            "Mreža Sinhronizovana",
		"premium":         "Premium Aktivan",
		"goPremium":       "Postani Premium",
		"skips":           "Preskakanja",
		"resets":          "Resetovanja",
		"pending":         "NA ČEKANJU",
		"available":       "Zadaci",
		"stats":           "Profil Inteligencije",
		"share":           "Podeli Statistiku",
		"cleared":         "Zadaci",
		"streak":          "Niz",
		"peak":            "Vrh",
		"details":         "Detalji Čišćenja",
		"archive":         "Arhiva Misija",
		"grid":            "Mreža",
		"intel":           "Info",
		"logs":            "ZAPISI",
		"copied":          "Link kopiran u clipboard!",
		DenyPremiumOnly:   "Resetovanja su samo za Premium agente! Koristi preskakanja.",
		DenyResetLimit:    "Dnevni limit resetovanja je dostignut!",
		DenyNoSkips:       "Nema više preskakanja!",
		DenyInvalidTarget: "Ovaj zadatak više ne može da se preda.",
		DenyVerifyFailed:  "Nešto nije u redu sa proverom.",
		DenyBadEvidence:   "Priloži dokaz koji ovaj zadatak traži.",
	},
	model.LanguageSpanish: {
		"sync":            "Red Sincronizada",
		"premium":         "Premium Activo",
		"goPremium":       "Hacerse Premium",
		"skips":           "Saltos",
		"resets":          "Reinicios",
		"pending":         "PENDIENTE",
		"available":       "Despliegues",
		"stats":           "Inteligencia de Perfil",
		"share":           "Compartir Estadísticas",
		"cleared":         "Misiones",
		"streak":          "Racha",
		"peak":            "Pico",
		"details":         "Detalles de Limpieza",
		"archive":         "Archivo de Misiones",
		"grid":            "Cuadrícula",
		"intel":           "Intel",
		"logs":            "REGISTROS",
		"copied":          "¡Enlace copiado!",
		DenyPremiumOnly:   "¡Los reinicios son solo para agentes Premium! Usa los saltos.",
		DenyResetLimit:    "¡Límite diario de reinicios alcanzado!",
		DenyNoSkips:       "¡No quedan saltos!",
		DenyInvalidTarget: "Esta misión ya no se puede entregar.",
		DenyVerifyFailed:  "Algo salió mal con la verificación.",
		DenyBadEvidence:   "Aporta la prueba que pide esta misión.",
	},
	model.LanguageFrench: {
		"sync":            "Réseau Synchronisé",
		"premium":         "Premium Actif",
		"goPremium":       "Devenir Premium",
		"skips":           "Sauts",
		"resets":          "Réinitialisations",
		"pending":         "EN ATTENTE",
		"available":       "Déploiements",
		"stats":           "Intelligence du Profil",
		"share":           "Partager les Stats",
		"cleared":         "Quêtes",
		"streak":          "Série",
		"peak":            "Sommet",
		"details":         "Détails du Nettoyage",
		"archive":         "Archives des Missions",
		"grid":            "Grille",
		"intel":           "Intel",
		"logs":            "JOURNAUX",
		"copied":          "Lien copié!",
		DenyPremiumOnly:   "Les réinitialisations sont réservées aux agents Premium ! Utilise les sauts.",
		DenyResetLimit:    "Limite quotidienne de réinitialisations atteinte !",
		DenyNoSkips:       "Plus de sauts disponibles !",
		DenyInvalidTarget: "Cette quête ne peut plus être soumise.",
		DenyVerifyFailed:  "La vérification a échoué.",
		DenyBadEvidence:   "Fournis la preuve demandée par cette quête.",
	},
}

func Supported(lang model.Language) bool {
	_, ok := translations[lang]
	return ok
}

func Languages() []model.Language {
	return []model.Language{
		model.LanguageEnglish,
		model.LanguageSerbian,
		model.LanguageSpanish,
		model.LanguageFrench,
	}
}

// PromptName is the language name given to the model, English for unknown codes.
func PromptName(lang model.Language) string {
	if name, ok := promptNames[lang]; ok {
		return name
	}
	return promptNames[model.LanguageEnglish]
}

// Table returns a copy of the strings for lang, falling back to English.
func Table(lang model.Language) map[string]string {
	src, ok := translations[lang]
	if !ok {
		src = translations[model.LanguageEnglish]
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func T(lang model.Language, key string) string {
	if table, ok := translations[lang]; ok {
		if v, ok := table[key]; ok {
			return v
		}
	}
	return translations[model.LanguageEnglish][key]
}
