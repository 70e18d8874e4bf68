// Package taskflow is a Go client for the TaskFlow HTTP API served by
// "taskflow serve".
//
//	client, err := taskflow.NewClient(taskflow.WithPort(7433))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	task, err := client.CreateTask(ctx, "Buy milk")
//	task, err = client.ToggleTask(ctx, task.ID)
//	list, err := client.ListTasks(ctx, taskflow.WithFilter(taskflow.FilterActive))
//	fmt.Println(list.Summary) // "You have 0 tasks left."
//
// Errors returned by the server are *Error values; use IsTaskNotFound and
// IsValidationFailed to inspect them. ErrServerNotRunning is returned when
// nothing is listening.
package taskflow
