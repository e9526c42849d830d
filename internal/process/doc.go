// Package process supervises the child processes started by the host:
// the renderer child in isolated mode and native dialog helpers.
//
// A Supervisor tracks every process it starts, reports exits through an
// optional callback, and terminates stragglers on Shutdown:
//
//	sup := process.NewSupervisor()
//	defer sup.Shutdown(2 * time.Second)
//
//	proc, err := sup.Start("renderer", cmd)
//	if err != nil {
//	    return err
//	}
//	<-proc.Done()
//
// Both Supervisor and Process are safe for concurrent use.
package process
