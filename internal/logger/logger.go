package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Domain uint8

const (
	UnknownDomain Domain = iota
	AllDomain
	InitDomain
	CLIDomain
	FileSystemDomain
	GCSDomain
	HTTPSDomain
	S3Domain
	IndexDomain
	InstallDomain
)

var (
	domainFromString = map[string]Domain{
		"all":     AllDomain,
		"init":    InitDomain,
		"cli":     CLIDomain,
		"fs":      FileSystemDomain,
		"gcs":     GCSDomain,
		"https":   HTTPSDomain,
		"s3":      S3Domain,
		"index":   IndexDomain,
		"install": InstallDomain,
	}

	stringFromDomain = map[Domain]string{
		AllDomain:        "all",
		InitDomain:       "init",
		CLIDomain:        "cli",
		FileSystemDomain: "fs",
		GCSDomain:        "gcs",
		HTTPSDomain:      "https",
		S3Domain:         "s3",
		IndexDomain:      "index",
		InstallDomain:    "install",
	}
)

type Builder struct {
	log          *zap.Logger
	defaultLevel zapcore.Level
	domainLevels map[Domain]zapcore.Level
	cache        map[Domain]*zap.Logger
}

func NewBuilder(out zapcore.WriteSyncer) *Builder {
	enc := newEncoder()
	return &Builder{
		log:          zap.New(zapcore.NewCore(enc, out, zapcore.DebugLevel)),
		defaultLevel: zap.InfoLevel,
		domainLevels: map[Domain]zapcore.Level{},
		cache:        map[Domain]*zap.Logger{},
	}
}

// NewTestBuilder returns a builder that discards all output. Intended for
// use in unit-tests only.
func NewTestBuilder() *Builder {
	return &Builder{
		log:          zap.NewNop(),
		defaultLevel: zap.InfoLevel,
		domainLevels: map[Domain]zapcore.Level{},
		cache:        map[Domain]*zap.Logger{},
	}
}

// SetDefaultLevel adjusts the level used by all domains without an explicit
// level of their own. It only affects domain loggers that have not yet been
// instantiated.
func (b *Builder) SetDefaultLevel(level zapcore.Level) {
	b.defaultLevel = level
}

func (b *Builder) SetDomainLevel(domain string, level zapcore.Level) {
	d := domainFromString[domain]
	switch d {
	case UnknownDomain:
		b.log.Warn("Unrecognised logger domain.")
	case AllDomain:
		b.defaultLevel = level
	case InitDomain, CLIDomain, FileSystemDomain, GCSDomain, HTTPSDomain, S3Domain, IndexDomain, InstallDomain:
		b.domainLevels[d] = level
	default:
		panic(fmt.Sprintf("unexpected domain %q", d))
	}
}

func (b *Builder) Domain(domain Domain) *zap.Logger {
	return b.logger(domain)
}

func (b *Builder) logger(domain Domain) *zap.Logger {
	if _, ok := b.cache[domain]; !ok {
		targetLevel := b.defaultLevel
		if lvl, ok := b.domainLevels[domain]; ok {
			targetLevel = lvl
		}
		b.cache[domain] = b.log.Named(stringFromDomain[domain]).WithOptions(zap.IncreaseLevel(targetLevel))
	}
	return b.cache[domain]
}
