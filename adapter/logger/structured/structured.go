package structured

import "github.com/sirupsen/logrus"

// structured writes JSON log lines, useful when the tool runs unattended
// and the output is shipped somewhere instead of read in a terminal.
type structured struct {
	log *logrus.Logger
}

func New() *structured {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return &structured{log: l}
}

func (s *structured) Log(msg string) {
	s.log.Info(msg)
}
