package config

type WorkerKeyStruct struct {
	NotifyEmailQueue string
}

var WorkerKey = &WorkerKeyStruct{
	NotifyEmailQueue: "notify_email_queue",
}
