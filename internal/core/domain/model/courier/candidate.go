package courier

// Candidate is a courier eligible for assignment together with the number of orders it
// is currently carrying (status OUT_FOR_DELIVERY).
type Candidate struct {
	Courier          *Courier
	ActiveDeliveries int
}
