// Command g2mfeed resolves the newest GoToMeeting build from the vendor
// release feed and prints its download URL and build number for consumption
// by packaging pipelines.
package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errNoNewerBuild) {
			os.Exit(1)
		}
		logrus.Error(err)
		os.Exit(2)
	}
}
