package tts

// anchorVoices — каталог именованных голосов диктора.
// Настройки категории могут хранить как имя из каталога,
// так и сырой идентификатор голоса.
var anchorVoices = map[string]string{
	"Rachel":   "21m00Tcm4TlvDq8ikWAM",
	"Drew":     "29vD33N1CtxCmqQRPOHJ",
	"Clyde":    "2EiwWnXFnvU5JabPnv8n",
	"Sarah":    "EXAVITQu4vr4xnSDxMaL",
	"Antoni":   "ErXwobaYiN019PkySvjV",
	"Thomas":   "GBv7mTt0atIp3Br8iCZE",
	"George":   "JBFqnCBsd6RMkjVDRZzb",
	"Emily":    "LcfcDJNUP1GQjkzn1xUU",
	"Dorothy":  "ThT5KcBeYPX3keUQqHPh",
	"Josh":     "TxGEqnHWrfWFTfGW9XjX",
	"Matilda":  "XrExE9yKIg1WjnnlVkGX",
	"Daniel":   "onwK4e9ZLuTAKqWW03F9",
	"Lily":     "pFZP5JQG7iQjIQuC4Bku",
	"Adam":     "pNInz6obpgDQGcFmaJgB",
	"Serena":   "pMsXgVXv3BLzUgSXRplE",
	"Giovanni": "zcAOhNBS3c14rBihAFp1",
}

// ResolveVoice переводит имя голоса из каталога в идентификатор.
// Неизвестное значение трактуется как готовый идентификатор.
func ResolveVoice(value string) string {
	if id, ok := anchorVoices[value]; ok {
		return id
	}

	return value
}

// VoiceNames возвращает имена голосов каталога (для админ-коллаборатора).
func VoiceNames() []string {
	names := make([]string, 0, len(anchorVoices))
	for name := range anchorVoices {
		names = append(names, name)
	}

	return names
}
