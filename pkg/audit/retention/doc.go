// Package retention prunes the audit trail by age (RetentionDays) and by
// size (MaxRecords), on demand or on a cron schedule.
package retention
