//go:build !windows

package evtlog

import (
	"go.uber.org/zap"

	"github.com/quentin-nozomi/evtq/metadata"
)

func OpenBackup(path, query string) (RecordIterator, error) {
	return nil, ErrUnsupportedPlatform
}

func NewHostSubscriber(creds *Credentials, logger *zap.Logger) (HostSubscriber, error) {
	creds.Zero()
	return nil, ErrUnsupportedPlatform
}

func NewPublisherEnumerator() (metadata.ProviderEnumerator, error) {
	return nil, ErrUnsupportedPlatform
}
