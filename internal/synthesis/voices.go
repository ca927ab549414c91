package synthesis

// SupportedVoices — фиксированный набор голосов, который принимает бэкенд seed-vc
var SupportedVoices = []string{"echo", "alloy", "fable", "onyx", "nova", "shimmer"}

// IsSupportedVoice проверяет, входит ли голос в поддерживаемый набор
func IsSupportedVoice(voice string) bool {
	for _, v := range SupportedVoices {
		if v == voice {
			return true
		}
	}
	return false
}
