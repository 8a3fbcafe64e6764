package discovery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/muurk/sadp/internal/device"
	"github.com/muurk/sadp/internal/logging"
)

// VerifyOptions configures how Verify polls a device after an update.
type VerifyOptions struct {
	// MaxRetries is the number of inquiries after the first one.
	// Default: 3
	MaxRetries int

	// InitialDelay gives the device time to apply the change and restart
	// its network stack before the first inquiry.
	// Default: 2s
	InitialDelay time.Duration

	// RetryDelay is the delay before the first retry; later retries double
	// it up to MaxRetryDelay.
	// Default: 1s
	RetryDelay time.Duration

	// MaxRetryDelay caps the delay between retries.
	// Default: 5s
	MaxRetryDelay time.Duration
}

// DefaultVerifyOptions returns the options sadp-cfg uses.
func DefaultVerifyOptions() VerifyOptions {
	return VerifyOptions{
		MaxRetries:    3,
		InitialDelay:  2 * time.Second,
		RetryDelay:    1 * time.Second,
		MaxRetryDelay: 5 * time.Second,
	}
}

// VerifyResult is the outcome of Verify.
type VerifyResult struct {
	Success  bool
	Attempts int

	// Actual is the device as last seen, nil if it never answered.
	Actual *device.Record

	// Mismatches lists the requested settings the device did not report,
	// from the last attempt.
	Mismatches []string

	// Err is why the last attempt failed.
	Err error
}

var errNotSeen = errors.New("device did not answer the inquiry")

// Verify re-inquires until the device with serial reports every setting in
// overrides, or the retries run out.
func (s *Session) Verify(serial string, overrides device.Overrides, opts VerifyOptions) VerifyResult {
	var result VerifyResult

	time.Sleep(opts.InitialDelay)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.RetryDelay
	b.MaxInterval = opts.MaxRetryDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0

	attempt := func() error {
		result.Attempts++

		results, err := s.Discover("")
		if err != nil {
			return fmt.Errorf("attempt %d: %w", result.Attempts, err)
		}

		actual, ok := results.Find(serial)
		if !ok {
			return fmt.Errorf("attempt %d: %w", result.Attempts, errNotSeen)
		}
		result.Actual = &actual

		result.Mismatches = mismatches(overrides, actual)
		if len(result.Mismatches) > 0 {
			return fmt.Errorf("attempt %d: %s", result.Attempts, strings.Join(result.Mismatches, "; "))
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logging.Debug("Verification attempt failed",
			zap.String("serial", serial),
			zap.Error(err),
			zap.Duration("retry_in", wait),
		)
	}

	retries := uint64(max(opts.MaxRetries, 0))
	err := backoff.RetryNotify(attempt, backoff.WithMaxRetries(b, retries), notify)
	if err != nil {
		result.Err = err
		logging.Warn("Verification failed",
			zap.String("serial", serial),
			zap.Int("attempts", result.Attempts),
			zap.Error(err),
		)
		return result
	}

	result.Success = true
	result.Err = nil
	return result
}

// mismatches lists every override the record does not reflect. Addresses
// are not compared when DHCP is being turned on.
func mismatches(o device.Overrides, actual device.Record) []string {
	var out []string
	check := func(name string, want, got any) {
		if want != got {
			out = append(out, fmt.Sprintf("%s: expected %v, got %v", name, want, got))
		}
	}

	dhcpOn := o.DHCP != nil && *o.DHCP
	if o.DHCP != nil {
		check("DHCP", *o.DHCP, actual.DHCP)
	}
	if !dhcpOn {
		if o.IPv4Address != nil {
			check("IPv4 address", *o.IPv4Address, actual.IPv4Address)
		}
		if o.IPv4SubnetMask != nil {
			check("subnet mask", *o.IPv4SubnetMask, actual.IPv4SubnetMask)
		}
		if o.IPv4Gateway != nil {
			check("gateway", *o.IPv4Gateway, actual.IPv4Gateway)
		}
	}
	if o.CommandPort != nil {
		check("command port", *o.CommandPort, actual.CommandPort)
	}
	if o.HTTPPort != nil {
		check("HTTP port", *o.HTTPPort, actual.HTTPPort)
	}
	if o.IPv6Address != nil {
		check("IPv6 address", *o.IPv6Address, actual.IPv6Address)
	}
	if o.IPv6Gateway != nil {
		check("IPv6 gateway", *o.IPv6Gateway, actual.IPv6Gateway)
	}
	if o.IPv6PrefixLength != nil {
		check("IPv6 prefix", *o.IPv6PrefixLength, actual.IPv6PrefixLength)
	}
	return out
}
