package autostart

import "os/exec"

const runKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func install(exe string) error {
	return exec.Command("reg", "add", runKey,
		"/v", "IPFS Desktop", "/t", "REG_SZ", "/d", exe, "/f").Run()
}

func remove() error {
	// Missing value exits non-zero; treat that as already removed.
	_ = exec.Command("reg", "delete", runKey, "/v", "IPFS Desktop", "/f").Run()
	return nil
}
