package cron

import (
	"log"
	"time"

	"github.com/nestbio/linko/internal/repository"
)

// Service runs background maintenance: nightly analytics retention
// pruning and hourly cleanup of unverified accounts.
type Service struct {
	clickRepo     *repository.ClickEventRepository
	userRepo      *repository.UserRepository
	retentionDays int
	stopChan      chan struct{}
}

func NewService(
	clickRepo *repository.ClickEventRepository,
	userRepo *repository.UserRepository,
	retentionDays int,
) *Service {
	return &Service{
		clickRepo:     clickRepo,
		userRepo:      userRepo,
		retentionDays: retentionDays,
		stopChan:      make(chan struct{}),
	}
}

func (s *Service) Start() {
	go s.runNightlyPrune()
	go s.runAccountCleanup()
	log.Println("Cron service started (analytics prune + account cleanup)")
}

func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runNightlyPrune fires shortly after UTC midnight, then every 24h.
func (s *Service) runNightlyPrune() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.pruneAnalytics()
			timer.Reset(24 * time.Hour)
		}
	}
}

func (s *Service) pruneAnalytics() {
	retention := s.retentionDays
	if retention <= 0 {
		retention = 90
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retention)

	deleted, err := s.clickRepo.DeleteOlderThan(cutoff)
	if err != nil {
		log.Printf("Analytics prune failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Analytics prune: removed %d daily rows before %s", deleted, cutoff.Format("2006-01-02"))
	}
}

// runAccountCleanup removes accounts that never verified their email.
func (s *Service) runAccountCleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanupUnverified()
		}
	}
}

func (s *Service) cleanupUnverified() {
	cutoff := time.Now().Add(-48 * time.Hour)
	deleted, err := s.userRepo.DeleteStaleUnverified(cutoff)
	if err != nil {
		log.Printf("Account cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Account cleanup: removed %d unverified accounts", deleted)
	}
}

// RunNow triggers both maintenance jobs immediately.
func (s *Service) RunNow() {
	s.pruneAnalytics()
	s.cleanupUnverified()
}
