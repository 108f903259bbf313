// Package installer copies the running binary into the system path.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gogf/gf/v2/os/gproc"
	log "github.com/sirupsen/logrus"

	"github.com/chrrivee/HerculesPi/internal/utils"
)

const installDir = "/usr/local/bin"
const binaryName = "hercules"

var installPath = filepath.Join(installDir, binaryName)

// Installed reports whether a system-wide copy exists.
func Installed() bool {
	info, err := os.Stat(installPath)
	return err == nil && !info.IsDir()
}

func shell(command string) error {
	output, err := gproc.ShellExec(context.Background(), command)
	if err != nil {
		return fmt.Errorf("%s: %w (%s)", command, err, output)
	}
	return nil
}

func elevated() bool {
	return os.Geteuid() == 0
}

// Install copies the current executable to the install path.
func Install() error {
	if runtime.GOOS == "windows" {
		return fmt.Errorf("installer does not support windows, copy the binary onto PATH manually")
	}
	self, err := os.Executable()
	if err != nil {
		return err
	}
	self, err = filepath.EvalSymlinks(self)
	if err != nil {
		return err
	}

	prefix := ""
	if !elevated() {
		log.Infoln("not running as root, using sudo for the copy")
		prefix = "sudo "
	}
	if err := shell(fmt.Sprintf("%scp %q %q", prefix, self, installPath)); err != nil {
		return err
	}
	if err := shell(fmt.Sprintf("%schmod 755 %q", prefix, installPath)); err != nil {
		return err
	}
	log.Infoln("installed to", installPath)
	return nil
}

// Uninstall removes the system-wide copy.
func Uninstall() error {
	if !Installed() {
		log.Infoln("nothing installed at", installPath)
		return nil
	}
	prefix := ""
	if !elevated() {
		prefix = "sudo "
	}
	if err := shell(fmt.Sprintf("%srm -f %q", prefix, installPath)); err != nil {
		return err
	}
	log.Infoln("removed", installPath)
	return nil
}

// Verify prints the installation state.
func Verify() {
	if Installed() {
		fmt.Println("hercules is installed at", installPath)
	} else {
		fmt.Println("hercules is not installed")
	}
}

// PromptInstall drives the interactive install/verify/uninstall flow.
func PromptInstall() {
	Verify()
	if Installed() {
		if utils.AskForConfirmationDefaultYes("reinstall (overwrite the existing copy)?") {
			if err := Install(); err != nil {
				log.Errorln(err)
			}
			return
		}
		if !utils.AskForConfirmationDefaultYes("keep the installed copy?") {
			if err := Uninstall(); err != nil {
				log.Errorln(err)
			}
		}
		return
	}
	if utils.AskForConfirmationDefaultYes("install hercules to " + installDir + "?") {
		if err := Install(); err != nil {
			log.Errorln(err)
		}
	}
}
