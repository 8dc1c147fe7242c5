// Package retention prunes old audit records on a cron schedule.
package retention
