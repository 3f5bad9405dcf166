package settings

type Option func(*Store)

func WithValues(values Values) Option {
	return func(s *Store) {
		s.values = values
	}
}

func WithCredential(credential string) Option {
	return func(s *Store) {
		s.values.Credential = credential
	}
}

func WithTargetLanguage(language string) Option {
	return func(s *Store) {
		s.values.TargetLanguage = language
	}
}
