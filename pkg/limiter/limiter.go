package limiter

// Limiter marks a provider that is already rate limited, so the registry
// does not wrap it twice.
type Limiter interface {
	limiterSetup()
}
