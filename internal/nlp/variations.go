package nlp

// Variations expands one confirmed utterance into its paraphrase family
// used to enrich the training set before retraining. Pure and
// deterministic: same input, same output, constant length.
func Variations(utterance string) []string {
	lower := Normalize(utterance)
	return []string{
		utterance,
		"¿" + utterance + "?",
		"Necesito ayuda con " + lower,
		"Problema al " + lower,
		"Error en " + lower,
		"Cómo solucionar " + lower,
		"Pasos para " + lower,
	}
}
