package cmd

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	level, err := logrus.ParseLevel(os.Getenv("RERATE_TEST_LOG"))
	if err != nil {
		level = logrus.WarnLevel
	}
	logrus.SetLevel(level)
	os.Exit(m.Run())
}
