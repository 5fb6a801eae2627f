package data

import (
	_ "embed"
)

//go:embed templates/reminder.txt
var ReminderTemplate string
