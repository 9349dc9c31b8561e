package identity

// Role names a job function within the system. The string values are the
// same codes the auth package embeds in session tokens.
type Role string

const (
	RoleSystemAdmin        Role = "system-admin"
	RoleHospitalAdmin      Role = "hospital-admin"
	RoleDoctor             Role = "doctor"
	RoleNurse              Role = "nurse"
	RoleInsuranceAdmin     Role = "insurance-admin"
	RoleClaimsProcessor    Role = "claims-processor"
	RoleUnderwriter        Role = "underwriter"
	RolePharmacyAdmin      Role = "pharmacy-admin"
	RolePharmacist         Role = "pharmacist"
	RolePharmacyTechnician Role = "pharmacy-technician"
	RoleSupplierAdmin      Role = "supplier-admin"
	RoleSupplierManager    Role = "supplier-manager"
	RolePatient            Role = "patient"
)

// Roles lists every defined role.
var Roles = []Role{
	RoleSystemAdmin,
	RoleHospitalAdmin,
	RoleDoctor,
	RoleNurse,
	RoleInsuranceAdmin,
	RoleClaimsProcessor,
	RoleUnderwriter,
	RolePharmacyAdmin,
	RolePharmacist,
	RolePharmacyTechnician,
	RoleSupplierAdmin,
	RoleSupplierManager,
	RolePatient,
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// DisplayName returns a human readable label for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleSystemAdmin:
		return "System Administrator"
	case RoleHospitalAdmin:
		return "Hospital Administrator"
	case RoleDoctor:
		return "Doctor"
	case RoleNurse:
		return "Nurse"
	case RoleInsuranceAdmin:
		return "Insurance Administrator"
	case RoleClaimsProcessor:
		return "Claims Processor"
	case RoleUnderwriter:
		return "Underwriter"
	case RolePharmacyAdmin:
		return "Pharmacy Administrator"
	case RolePharmacist:
		return "Pharmacist"
	case RolePharmacyTechnician:
		return "Pharmacy Technician"
	case RoleSupplierAdmin:
		return "Supplier Administrator"
	case RoleSupplierManager:
		return "Supplier Manager"
	case RolePatient:
		return "Patient"
	default:
		return string(r)
	}
}

// IsAdmin reports whether the role administers some part of the system.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleSystemAdmin, RoleHospitalAdmin, RoleInsuranceAdmin, RolePharmacyAdmin, RoleSupplierAdmin:
		return true
	}
	return false
}

// IsPatient reports whether the role belongs to a patient account.
func (r Role) IsPatient() bool { return r == RolePatient }

// CanProcessClaims reports whether the role may review and decide claims.
func (r Role) CanProcessClaims() bool {
	switch r {
	case RoleClaimsProcessor, RoleInsuranceAdmin, RoleSystemAdmin:
		return true
	}
	return false
}

// CanPrescribe reports whether the role may write prescriptions.
func (r Role) CanPrescribe() bool {
	return r == RoleDoctor || r == RoleNurse
}

// CanDispense reports whether the role may fill prescriptions.
func (r Role) CanDispense() bool {
	switch r {
	case RolePharmacist, RolePharmacyTechnician, RolePharmacyAdmin:
		return true
	}
	return false
}

// IsMedicalStaff reports whether the role works in direct patient care.
func (r Role) IsMedicalStaff() bool {
	switch r {
	case RoleDoctor, RoleNurse, RoleHospitalAdmin:
		return true
	}
	return false
}

// IsPharmacyStaff reports whether the role works in a pharmacy.
func (r Role) IsPharmacyStaff() bool {
	switch r {
	case RolePharmacist, RolePharmacyTechnician, RolePharmacyAdmin:
		return true
	}
	return false
}
