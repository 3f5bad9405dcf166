package header

type Option func(*Provider)

func WithSubjectHeader(name string) Option {
	return func(p *Provider) {
		p.subjectHeader = name
	}
}

func WithEmailHeader(name string) Option {
	return func(p *Provider) {
		p.emailHeader = name
	}
}
