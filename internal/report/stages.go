package report

// Contact date properties stamped by the lifecycle-stage pipeline. Each
// records the instant a contact entered the stage.
const (
	propCreateDate          = "createdate"
	propNewLeadDate         = "date_entered__new_lead__new_lifecycle_stage_pipeline__"
	propContactDate         = "date_entered__contact__new_lifecycle_stage_pipeline__"
	propTakeoverDate        = "takeover_date_time"
	propTakeoverType        = "takeover_type"
	propZoomBookedDate      = "date_entered__zoom_booked__new_lifecycle_stage_pipeline__"
	propZoomAttendedDate    = "date_entered__zoom_attended__new_lifecycle_stage_pipeline__"
	propDealNegotiationDate = "date_entered__deal_negotiation__new_lifecycle_stage_pipeline__"
)

// Takeover types recorded when a secondary owner assumes a contact.
const (
	takeoverCall = "TO Call"
	takeoverText = "TO Text"
)

// Lead type values assigned at allocation.
const (
	leadTypeNew         = "New Lead"
	leadTypeDuplicate   = "Duplicate"
	leadTypeResubmitted = "Resubmitted"
	leadTypeNurture     = "Nurture"
	leadTypeSelfGen     = "Self Gen"
)

// Flat snapshot keys for the lifecycle-stage counts, in fetch order.
const (
	keyContact      = "contact_count"
	keyTakeoverCall = "take_over_call_count"
	keyTakeoverText = "take_over_text_count"
	keyZoomBook     = "zoom_book_count"
	keyZoomAttend   = "zoom_attend_count"
	keyDealNego     = "deal_negotiation_count"
)
