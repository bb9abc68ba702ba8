package fleet

import "errors"

var (
	ErrVesselExists          = errors.New("fleet: vessel already registered")
	ErrVesselNotFound        = errors.New("fleet: vessel not found")
	ErrEquipmentExists       = errors.New("fleet: equipment already registered")
	ErrEquipmentNotFound     = errors.New("fleet: equipment not found")
	ErrCertificationExists   = errors.New("fleet: certification already registered")
	ErrCertificationNotFound = errors.New("fleet: certification not found")
	ErrNotOwner              = errors.New("fleet: caller is not the vessel owner")
	ErrInvalidVessel         = errors.New("fleet: invalid vessel")
	ErrInvalidEquipment      = errors.New("fleet: invalid equipment")
	ErrInvalidCertification  = errors.New("fleet: invalid certification")
)
