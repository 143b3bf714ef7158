package hubspot

import (
	"fmt"
	"math"
	"strings"
	"time"

	"dawah-crm/internal/domain"
)

// Local-to-HubSpot vocabulary maps. The wire field names must be preserved
// exactly for interoperability with existing HubSpot portals.

// mapLeadStatus translates a contact's lead status to a HubSpot lifecycle
// stage. Unrecognized values fall back to "lead".
func mapLeadStatus(status string) string {
	switch status {
	case domain.LeadStatusLead:
		return "lead"
	case domain.LeadStatusProspect:
		return "salesqualifiedlead"
	case domain.LeadStatusCustomer, domain.LeadStatusPastCustomer:
		return "customer"
	default:
		return "lead"
	}
}

// mapPledgeStatus translates a pledge status to a HubSpot deal stage.
// Unrecognized values fall back to "qualifiedtobuy".
func mapPledgeStatus(status string) string {
	switch status {
	case domain.PledgeStatusPending:
		return "qualifiedtobuy"
	case domain.PledgeStatusReceived:
		return "closedwon"
	case domain.PledgeStatusFailed:
		return "closedlost"
	default:
		return "qualifiedtobuy"
	}
}

// mapActivityType translates an activity type to a HubSpot task type.
// Unrecognized values fall back to the generic NOTE type.
func mapActivityType(activityType string) string {
	switch activityType {
	case domain.ActivityTypeCall:
		return "CALL"
	case domain.ActivityTypeEmail:
		return "EMAIL"
	case domain.ActivityTypeMeeting:
		return "MEETING"
	case domain.ActivityTypeNote:
		return "NOTE"
	default:
		return "NOTE"
	}
}

func contactProperties(c *domain.Contact) map[string]any {
	return map[string]any{
		"firstname":      c.FirstName,
		"lastname":       c.LastName,
		"email":          c.Email,
		"phone":          c.Phone,
		"company":        c.Company,
		"lifecyclestage": mapLeadStatus(c.LeadStatus),
	}
}

func pledgeProperties(p *domain.Pledge) map[string]any {
	properties := map[string]any{
		"dealname":                 dealName(p),
		"dealtype":                 "donation",
		"amount":                   amountInCents(p.Amount),
		"dealstage":                mapPledgeStatus(p.Status),
		"custom_pledge_type":       p.Type,
		"custom_pledge_status":     p.Status,
		"notes_next_activity_date": p.Notes,
	}
	if p.ExpectedDate != nil {
		properties["closedate"] = p.ExpectedDate.UTC().Format("2006-01-02")
	}
	return properties
}

func activityProperties(a *domain.Activity) map[string]any {
	return map[string]any{
		"hs_task_type":            mapActivityType(a.Type),
		"hs_task_subject":         a.Title,
		"hs_task_body":            a.Description,
		"hs_task_for_object_type": "CONTACT",
		"hs_timestamp":            a.Date.UTC().Format(time.RFC3339),
	}
}

// amountInCents converts a major-unit amount to HubSpot's integer cents.
func amountInCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// dealName builds the display name, e.g. "Donation - $50".
func dealName(p *domain.Pledge) string {
	pledgeType := p.Type
	if pledgeType != "" {
		pledgeType = strings.ToUpper(pledgeType[:1]) + pledgeType[1:]
	}
	return fmt.Sprintf("%s - $%v", pledgeType, p.Amount)
}
