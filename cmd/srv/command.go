package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "classroom"
	s.app.Usage = "Real-time notification service of the classroom"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path of the TOML configuration file",
			EnvVars: []string{"CONFIG_FILE"},
		},
	}
	s.app.Before = s.loadConfig
	s.app.After = func(*cli.Context) error {
		if s.stop != nil {
			s.stop()
		}
		return nil
	}
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startNotification,
			Name:        "notification",
			Usage:       "Start notification service",
			Category:    "Websocket",
			Description: `Used to serve the notification and lobby websockets and the notification APIs.`,
		},
		{
			Action:      s.startWorker,
			Name:        "worker",
			Usage:       "Start notification worker",
			Category:    "Worker",
			Description: `Used to consume notification tasks from kafka and deliver them.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Used to remove group members of dead notification instances.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database",
			Category:    "Database",
			Description: `Used to create or update the tables of the notification service.`,
		},
	}
}
