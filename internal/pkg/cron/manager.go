package cron

import (
	"Lokiz/internal/api/config"
	"Lokiz/internal/job"
	"fmt"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine              *cron.Cron
	schedule            config.CronConfig
	counterReconcileJob *job.CounterReconcileJob
	staleJobSweepJob    *job.StaleJobSweepJob
	notificationJob     *job.NotificationPruneJob
}

func NewCronManager(schedule config.CronConfig, counterReconcileJob *job.CounterReconcileJob,
	staleJobSweepJob *job.StaleJobSweepJob, notificationJob *job.NotificationPruneJob) *Manager {
	return &Manager{
		engine:              cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		schedule:            schedule,
		counterReconcileJob: counterReconcileJob,
		staleJobSweepJob:    staleJobSweepJob,
		notificationJob:     notificationJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	jobs := []struct {
		spec string
		job  cron.Job
	}{
		{s.schedule.CounterReconcile, s.counterReconcileJob},
		{s.schedule.StaleJobSweep, s.staleJobSweepJob},
		{s.schedule.NotificationPrune, s.notificationJob},
	}
	for _, j := range jobs {
		// 空表达式表示禁用
		if j.spec == "" {
			continue
		}
		if _, err := s.engine.AddJob(j.spec, j.job); err != nil {
			return fmt.Errorf("register cron job %q: %w", j.spec, err)
		}
	}
	return nil
}

// Run 注册并启动
func (s *Manager) Run() error {
	if err := s.RegisterJobs(); err != nil {
		return err
	}
	s.Start()
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
