package migrateutil

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kinds of the values reported in the FormatError.
const (
	MACAddressKind  = "MAC address"
	IPv4AddressKind = "IPv4 address"
	HexStringKind   = "hex string"
)

const (
	macHexDigits = 12
	ipv4HexWidth = 8
	macMask      = uint64(1)<<48 - 1
)

// Removes the separators commonly used in MAC addresses.
func stripMACSeparators(mac string) string {
	return strings.NewReplacer(":", "", "-", "", ".", "", " ", "").Replace(mac)
}

// Converts a MAC address to an integer. The separators (colons, hyphens,
// dots and spaces) are stripped and the remaining string must consist of
// exactly 12 hexadecimal digits.
func MACToInteger(mac string) (uint64, error) {
	digits := stripMACSeparators(strings.TrimSpace(mac))
	if len(digits) != macHexDigits {
		return 0, NewFormatError(MACAddressKind, mac,
			fmt.Sprintf("expected %d hexadecimal digits, got %d", macHexDigits, len(digits)))
	}
	value, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, NewFormatError(MACAddressKind, mac, "not a hexadecimal number")
	}
	return value, nil
}

// Renders the low 48 bits of the value as a MAC address: 12 zero-padded
// lower-case hexadecimal digits with a colon after every two digits.
func IntegerToMAC(value uint64) string {
	digits := fmt.Sprintf("%012x", value&macMask)
	var sb strings.Builder
	for i := 0; i < macHexDigits; i += 2 {
		if i > 0 {
			sb.WriteByte(':')
		}
		sb.WriteString(digits[i : i+2])
	}
	return sb.String()
}

// Returns the canonical form of the MAC address (six colon-separated
// two-digit lower-case octets). The ISC DHCP server accepts octets
// without leading zeros (e.g. 0:1a:2b:3c:4d:5e), so the octets separated
// with colons or hyphens are padded before conversion. Such an address
// must use one kind of separator and have exactly six octets. Other
// forms (e.g. 001a.2b3c.4d5e) must have 12 hexadecimal digits.
func NormalizeMAC(mac string) (string, error) {
	trimmed := strings.TrimSpace(mac)
	hasColon := strings.Contains(trimmed, ":")
	hasHyphen := strings.Contains(trimmed, "-")
	if hasColon && hasHyphen {
		return "", NewFormatError(MACAddressKind, mac, "mixed octet separators")
	}
	if hasColon || hasHyphen {
		separator := ":"
		if hasHyphen {
			separator = "-"
		}
		octets := strings.Split(trimmed, separator)
		if len(octets) != 6 {
			return "", NewFormatError(MACAddressKind, mac,
				fmt.Sprintf("expected 6 octets, got %d", len(octets)))
		}
		for i, octet := range octets {
			if len(octet) == 0 || len(octet) > 2 {
				return "", NewFormatError(MACAddressKind, mac,
					fmt.Sprintf("octet %d has invalid length", i+1))
			}
			if len(octet) == 1 {
				octets[i] = "0" + octet
			}
		}
		trimmed = strings.Join(octets, "")
	}
	value, err := MACToInteger(trimmed)
	if err != nil {
		var formatErr *FormatError
		if errors.As(err, &formatErr) {
			formatErr.Value = mac
		}
		return "", err
	}
	return IntegerToMAC(value), nil
}

// Converts a MAC address to its 6-byte binary representation used as a
// DHCP identifier in the host database.
func MACToBytes(mac string) ([]byte, error) {
	value, err := MACToInteger(mac)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, value)
	return buf[2:], nil
}

// Converts a 6-byte binary identifier into the canonical MAC address.
func BytesToMAC(identifier []byte) (string, error) {
	if len(identifier) != 6 {
		return "", NewFormatError(MACAddressKind, BytesToHex(identifier),
			fmt.Sprintf("expected 6 bytes, got %d", len(identifier)))
	}
	buf := make([]byte, 8)
	copy(buf[2:], identifier)
	return IntegerToMAC(binary.BigEndian.Uint64(buf)), nil
}

// Converts the IPv4 address in the dotted-decimal notation to an integer.
func IPToInteger(ip string) (uint32, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return 0, NewFormatError(IPv4AddressKind, ip, "not a dotted-decimal address")
	}
	if !addr.Is4() {
		return 0, NewFormatError(IPv4AddressKind, ip, "not an IPv4 address")
	}
	octets := addr.As4()
	return binary.BigEndian.Uint32(octets[:]), nil
}

// Converts an integer to the IPv4 address in the dotted-decimal notation.
func IntegerToIP(value uint32) string {
	var octets [4]byte
	binary.BigEndian.PutUint32(octets[:], value)
	return netip.AddrFrom4(octets).String()
}

// Converts the IPv4 address to 8 zero-padded hexadecimal digits.
func IPToHex8(ip string) (string, error) {
	value, err := IPToInteger(ip)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%08x", value), nil
}

// Converts a list of IPv4 addresses to the concatenation of their
// 8-digit hexadecimal representations.
func IPListToHex(ips []string) (string, error) {
	var sb strings.Builder
	for _, ip := range ips {
		chunk, err := IPToHex8(ip)
		if err != nil {
			return "", err
		}
		sb.WriteString(chunk)
	}
	return sb.String(), nil
}

// Splits the hexadecimal string into 8-digit chunks and converts each
// of them to an IPv4 address. The string length must be a multiple of 8.
func HexToIPList(hex string) ([]string, error) {
	if len(hex)%ipv4HexWidth != 0 {
		return nil, NewFormatError(HexStringKind, hex,
			fmt.Sprintf("length %d is not a multiple of %d", len(hex), ipv4HexWidth))
	}
	ips := make([]string, 0, len(hex)/ipv4HexWidth)
	for i := 0; i < len(hex); i += ipv4HexWidth {
		value, err := strconv.ParseUint(hex[i:i+ipv4HexWidth], 16, 32)
		if err != nil {
			return nil, NewFormatError(HexStringKind, hex,
				fmt.Sprintf("chunk at offset %d is not hexadecimal", i))
		}
		ips = append(ips, IntegerToIP(uint32(value)))
	}
	return ips, nil
}
