// Package proc starts and owns long-lived child processes: chain nodes,
// relayers, and the docker client driving containerized backends. Each
// started process is wrapped in a Handle that either follows its output in
// the foreground or releases it, killing its whole process group. Handles
// are single-owner; Release is called exactly once per handle.
package proc
