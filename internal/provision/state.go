package provision

// State is a step of the provisioning state machine. States advance strictly
// in declaration order. Done and Aborted are terminal; Aborted is reachable
// from any step that fails fatally.
type State int

const (
	StateInit State = iota
	StateCheckSupport
	StateConfigureOverlay
	StatePatchBlacklist
	StateConfigureAudio
	StateInstallService
	StateOfferTest
	StateOfferReboot
	StateDone
	StateAborted
)

var stateNames = [...]string{
	StateInit:             "init",
	StateCheckSupport:     "check-support",
	StateConfigureOverlay: "configure-overlay",
	StatePatchBlacklist:   "patch-blacklist",
	StateConfigureAudio:   "configure-audio",
	StateInstallService:   "install-service",
	StateOfferTest:        "offer-test",
	StateOfferReboot:      "offer-reboot",
	StateDone:             "done",
	StateAborted:          "aborted",
}

// String returns the state's log name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
