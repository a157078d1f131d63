package events

// Topic constants for domain events emitted by the CRM.
const (
	TopicPresaleCreated       = "presale.created"
	TopicPresaleUpdated       = "presale.updated"
	TopicPresaleStatusChanged = "presale.status_changed"
	TopicPresaleConverted     = "presale.converted"
	TopicPresaleDeleted       = "presale.deleted"
	TopicProductStockAdjusted = "product.stock_adjusted"
)

// DefaultTopics returns every topic the background worker handles.
func DefaultTopics() []string {
	return []string{
		TopicPresaleCreated,
		TopicPresaleUpdated,
		TopicPresaleStatusChanged,
		TopicPresaleConverted,
		TopicPresaleDeleted,
		TopicProductStockAdjusted,
	}
}

// AffectsReports reports whether events on topic change reporting figures.
func AffectsReports(topic string) bool {
	switch topic {
	case TopicPresaleCreated, TopicPresaleUpdated, TopicPresaleStatusChanged,
		TopicPresaleConverted, TopicPresaleDeleted:
		return true
	default:
		return false
	}
}
