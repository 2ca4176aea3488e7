package mqttlite

import "fmt"

// ReturnCode is the result code carried in byte 3 of a CONNACK packet.
type ReturnCode byte

// CONNACK return codes defined by MQTT 3.1.1.
const (
	ReturnAccepted                    ReturnCode = 0x00
	ReturnUnacceptableProtocolVersion ReturnCode = 0x01
	ReturnIdentifierRejected          ReturnCode = 0x02
	ReturnServerUnavailable           ReturnCode = 0x03
	ReturnBadUsernameOrPassword       ReturnCode = 0x04
	ReturnNotAuthorized               ReturnCode = 0x05
)

// SubackFailure is the SUBACK return code signalling a refused subscription.
const SubackFailure byte = 0x80

// String returns the string representation of the return code.
func (r ReturnCode) String() string {
	switch r {
	case ReturnAccepted:
		return "connection accepted"
	case ReturnUnacceptableProtocolVersion:
		return "unacceptable protocol version"
	case ReturnIdentifierRejected:
		return "identifier rejected"
	case ReturnServerUnavailable:
		return "server unavailable"
	case ReturnBadUsernameOrPassword:
		return "bad user name or password"
	case ReturnNotAuthorized:
		return "not authorized"
	default:
		return fmt.Sprintf("unknown return code 0x%02X", byte(r))
	}
}

// IsAuthFailure returns true for return codes caused by credentials or authorization.
func (r ReturnCode) IsAuthFailure() bool {
	return r == ReturnBadUsernameOrPassword || r == ReturnNotAuthorized
}
