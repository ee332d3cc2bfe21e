// Package classify maps free-text payroll categories onto the closed activity
// enumeration and pay-rate classes of stored timesheet entries.
package classify

import "strings"

type ActivityType string

const (
	ActivitySite          ActivityType = "Site"
	ActivityTravel        ActivityType = "Travel"
	ActivityWorkshop      ActivityType = "Workshop"
	ActivityOffice        ActivityType = "Office"
	ActivityTraining      ActivityType = "Training"
	ActivitySiteInduction ActivityType = "Site Induction"
	ActivitySales         ActivityType = "Sales"
	ActivityRecoveryTime  ActivityType = "Recovery Time"
	ActivityReporting     ActivityType = "Reporting"
	ActivityAnnualLeave   ActivityType = "Annual Leave"
	ActivityPublicHoliday ActivityType = "Public Holiday"
	ActivitySickLeave     ActivityType = "Sick Leave"
	ActivityNotApplicable ActivityType = "N/A"
)

// ActivityTypes lists every valid activity in display order.
var ActivityTypes = []ActivityType{
	ActivitySite,
	ActivityTravel,
	ActivityWorkshop,
	ActivityOffice,
	ActivityTraining,
	ActivitySiteInduction,
	ActivitySales,
	ActivityRecoveryTime,
	ActivityReporting,
	ActivityAnnualLeave,
	ActivityPublicHoliday,
	ActivitySickLeave,
	ActivityNotApplicable,
}

// nonChargeable activities do not count toward utilization.
var nonChargeable = map[ActivityType]bool{
	ActivityWorkshop:      true,
	ActivityOffice:        true,
	ActivityTraining:      true,
	ActivitySiteInduction: true,
	ActivityReporting:     true,
	ActivityAnnualLeave:   true,
	ActivityPublicHoliday: true,
	ActivitySickLeave:     true,
	ActivityRecoveryTime:  true,
	ActivityNotApplicable: true,
}

func (a ActivityType) Valid() bool {
	for _, candidate := range ActivityTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

func (a ActivityType) Chargeable() bool {
	return a.Valid() && !nonChargeable[a]
}

type PayType string

const (
	PayBase     PayType = "base"
	PayOvertime PayType = "overtime"
)

type Classification struct {
	Activity       ActivityType
	RateMultiplier float64
	PayType        PayType
}

type activityRule struct {
	key      string
	activity ActivityType
}

type rateRule struct {
	key        string
	multiplier float64
	payType    PayType
}

// activityRules is ordered: the substring scan returns the first hit.
// Overtime labels resolve to the activity they are paid on, not a separate one.
var activityRules = []activityRule{
	{"base hourly", ActivitySite},
	{"base", ActivitySite},
	{"site", ActivitySite},
	{"travel", ActivityTravel},
	{"workshop", ActivityWorkshop},
	{"office", ActivityOffice},
	{"training", ActivityTraining},
	{"induction", ActivitySiteInduction},
	{"site induction", ActivitySiteInduction},
	{"sales", ActivitySales},
	{"recovery", ActivityRecoveryTime},
	{"recovery time", ActivityRecoveryTime},
	{"reporting", ActivityReporting},
	{"annual leave", ActivityAnnualLeave},
	{"leave", ActivityAnnualLeave},
	{"public holiday", ActivityPublicHoliday},
	{"sick leave", ActivitySickLeave},
	{"sick", ActivitySickLeave},
	{"ot 1.5x", ActivitySite},
	{"ot 2x", ActivitySite},
	{"overtime", ActivitySite},
	{"n/a", ActivityNotApplicable},
}

var rateRules = []rateRule{
	{"base hourly", 1.0, PayBase},
	{"base", 1.0, PayBase},
	{"ot 1.5x", 1.5, PayOvertime},
	{"ot 2x", 2.0, PayOvertime},
	{"overtime 1.5", 1.5, PayOvertime},
	{"overtime 2.0", 2.0, PayOvertime},
}

var defaultClassification = Classification{
	Activity:       ActivitySite,
	RateMultiplier: 1.0,
	PayType:        PayBase,
}

// Classify resolves the activity from category, then secondary, then a
// substring scan over both, falling back to Site. The pay rate comes from the
// category alone.
func Classify(category, secondary string) Classification {
	activity, _ := resolveActivity(category, secondary)
	out := Rate(category)
	out.Activity = activity
	return out
}

// Rate returns the multiplier and pay type for an exact category label.
func Rate(category string) Classification {
	key := normalize(category)
	for _, rule := range rateRules {
		if rule.key == key {
			return Classification{
				Activity:       defaultClassification.Activity,
				RateMultiplier: rule.multiplier,
				PayType:        rule.payType,
			}
		}
	}
	return defaultClassification
}

// Unmatched reports whether neither string matched any activity rule, so the
// Site default was applied.
func Unmatched(category, secondary string) bool {
	_, matched := resolveActivity(category, secondary)
	return !matched
}

// IsBaseCategory reports whether hours in a row count toward the weekly
// base-rate limit.
func IsBaseCategory(category string) bool {
	key := normalize(category)
	return strings.Contains(key, "base") && !strings.Contains(key, "ot")
}

func resolveActivity(category, secondary string) (ActivityType, bool) {
	categoryKey := normalize(category)
	secondaryKey := normalize(secondary)

	if activity, ok := exactActivity(categoryKey); ok {
		return activity, true
	}
	if activity, ok := exactActivity(secondaryKey); ok {
		return activity, true
	}
	for _, rule := range activityRules {
		if strings.Contains(categoryKey, rule.key) || strings.Contains(secondaryKey, rule.key) {
			return rule.activity, true
		}
	}
	return defaultClassification.Activity, false
}

func exactActivity(key string) (ActivityType, bool) {
	if key == "" {
		return "", false
	}
	for _, rule := range activityRules {
		if rule.key == key {
			return rule.activity, true
		}
	}
	return "", false
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
