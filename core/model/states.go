package model

// TaxiState describes the phase of a taxi's trip state machine.
type TaxiState int

const (
	TaxiAvailable TaxiState = iota
	TaxiGoingToPickup
	TaxiPassengerAboard
	TaxiWaiting
)

// String returns a human-readable representation of the taxi state.
func (s TaxiState) String() string {
	switch s {
	case TaxiAvailable:
		return "available"
	case TaxiGoingToPickup:
		return "going_to_pickup"
	case TaxiPassengerAboard:
		return "passenger_aboard"
	case TaxiWaiting:
		return "waiting"
	default:
		return "unknown"
	}
}

// Moving reports whether the taxi is executing a trip leg.
func (s TaxiState) Moving() bool {
	return s == TaxiGoingToPickup || s == TaxiPassengerAboard
}

// PassengerState describes the phase of a passenger's request protocol.
type PassengerState int

const (
	PassengerInactive PassengerState = iota
	PassengerRequesting
	PassengerWaiting
	PassengerOnTrip
	PassengerCompleted
	PassengerCancelled
)

// String returns a human-readable representation of the passenger state.
func (s PassengerState) String() string {
	switch s {
	case PassengerInactive:
		return "inactive"
	case PassengerRequesting:
		return "requesting"
	case PassengerWaiting:
		return "waiting_for_taxi"
	case PassengerOnTrip:
		return "on_trip"
	case PassengerCompleted:
		return "completed"
	case PassengerCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the passenger has finished participating.
func (s PassengerState) Terminal() bool {
	return s == PassengerCompleted || s == PassengerCancelled
}

// DispatcherState reflects the phase of the dispatcher's most recent
// operation. It is informational only and never drives behaviour.
type DispatcherState int

const (
	DispatcherMonitoring DispatcherState = iota
	DispatcherProcessingRequest
	DispatcherAssigningTaxi
	DispatcherSupervisingTrip
)

// String returns a human-readable representation of the dispatcher state.
func (s DispatcherState) String() string {
	switch s {
	case DispatcherMonitoring:
		return "monitoring"
	case DispatcherProcessingRequest:
		return "processing_request"
	case DispatcherAssigningTaxi:
		return "assigning_taxi"
	case DispatcherSupervisingTrip:
		return "supervising_trip"
	default:
		return "unknown"
	}
}
