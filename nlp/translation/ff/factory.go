package ff

var defaultConstructors = map[string]Constructor{
	INPUT_FEATURE:        func() FeatureFunction { return NewInputFeature() },
	WORD_PENALTY:         func() FeatureFunction { return NewWordPenalty() },
	PHRASE_PENALTY:       func() FeatureFunction { return NewPhrasePenalty() },
	UNKNOWN_WORD_PENALTY: func() FeatureFunction { return NewUnknownWordPenalty() },
	PHRASE_DICTIONARY:    func() FeatureFunction { return NewPhraseDictionary() },
}

// PhraseSources returns the registered functions providing translation options
func (r *Registry) PhraseSources() []PhraseSource {
	var sources []PhraseSource
	for _, f := range r.functions {
		if source, ok := f.(PhraseSource); ok {
			sources = append(sources, source)
		}
	}
	return sources
}
