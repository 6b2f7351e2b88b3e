package server

import (
	"context"
	"time"
)

// Maintain removes expired sessions and forgets elapsed rate-limit windows.
func (s *Server) Maintain(ctx context.Context) {
	n, err := s.sessionStore.CleanupExpired(ctx)
	if err != nil {
		s.logger.Error("session cleanup", "error", err)
	}
	swept := s.loginLimiter.Sweep()
	throttled := s.formLimiter.Cleanup()
	s.logger.Info("maintenance complete",
		"expired_sessions", n,
		"login_entries", swept,
		"form_windows", throttled,
	)
}

// RunMaintenance calls Maintain every interval until ctx is done.
func (s *Server) RunMaintenance(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Maintain(ctx)
		}
	}
}
