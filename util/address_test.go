package migrateutil

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// Test converting MAC addresses in various formats to integers.
func TestMACToInteger(t *testing.T) {
	value, err := MACToInteger("00:1a:2b:3c:4d:5e")
	require.NoError(t, err)
	require.EqualValues(t, 0x001a2b3c4d5e, value)

	value, err = MACToInteger("00-1A-2B-3C-4D-5E")
	require.NoError(t, err)
	require.EqualValues(t, 0x001a2b3c4d5e, value)

	value, err = MACToInteger("001a.2b3c.4d5e")
	require.NoError(t, err)
	require.EqualValues(t, 0x001a2b3c4d5e, value)

	value, err = MACToInteger("ffffffffffff")
	require.NoError(t, err)
	require.EqualValues(t, 0xffffffffffff, value)
}

// Test that malformed MAC addresses are rejected with the FormatError.
func TestMACToIntegerInvalid(t *testing.T) {
	for _, mac := range []string{"", "00:1a:2b:3c:4d", "00:1a:2b:3c:4d:5e:6f", "00:1a:2b:3c:4d:zz", "+01a2b3c4d5e"} {
		_, err := MACToInteger(mac)
		require.Error(t, err, mac)
		var formatErr *FormatError
		require.True(t, errors.As(err, &formatErr), mac)
		require.Equal(t, MACAddressKind, formatErr.Kind)
		require.Equal(t, mac, formatErr.Value)
	}
}

// Test rendering integers as MAC addresses.
func TestIntegerToMAC(t *testing.T) {
	require.Equal(t, "00:00:00:00:00:00", IntegerToMAC(0))
	require.Equal(t, "00:1a:2b:3c:4d:5e", IntegerToMAC(0x001a2b3c4d5e))
	require.Equal(t, "ff:ff:ff:ff:ff:ff", IntegerToMAC(0xffffffffffff))
	require.Equal(t, "00:00:00:00:00:01", IntegerToMAC(1))
}

// Test that the MAC conversion round-trips for the normalized addresses.
func TestMACRoundTrip(t *testing.T) {
	for _, mac := range []string{"00:1a:2b:3c:4d:5e", "AA:BB:CC:DD:EE:FF", "01-02-03-04-05-06", "000000000000"} {
		value, err := MACToInteger(mac)
		require.NoError(t, err)
		normalized, err := NormalizeMAC(mac)
		require.NoError(t, err)
		require.Equal(t, normalized, IntegerToMAC(value))
	}
	for _, value := range []uint64{0, 1, 0xabcdef, 0x0123456789ab, 0xffffffffffff} {
		back, err := MACToInteger(IntegerToMAC(value))
		require.NoError(t, err)
		require.Equal(t, value, back)
	}
}

// Test normalizing MAC addresses including the octets without leading zeros.
func TestNormalizeMAC(t *testing.T) {
	mac, err := NormalizeMAC("0:1A:2b:3c:4d:5e")
	require.NoError(t, err)
	require.Equal(t, "00:1a:2b:3c:4d:5e", mac)

	mac, err = NormalizeMAC(" 1-2-3-4-5-6 ")
	require.NoError(t, err)
	require.Equal(t, "01:02:03:04:05:06", mac)

	mac, err = NormalizeMAC("001A2B3C4D5E")
	require.NoError(t, err)
	require.Equal(t, "00:1a:2b:3c:4d:5e", mac)

	_, err = NormalizeMAC("0:1a:2b::4d:5e")
	require.Error(t, err)

	_, err = NormalizeMAC("001:1a:2b:3c:4d:5e")
	require.Error(t, err)

	_, err = NormalizeMAC("0:1a:2b:3c:4d:5g")
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	require.Equal(t, "0:1a:2b:3c:4d:5g", formatErr.Value)
}

// Test that the MAC addresses with separators but without six octets are
// rejected instead of being stripped to 12 digits.
func TestNormalizeMACMalformedOctets(t *testing.T) {
	testCases := []struct {
		mac    string
		reason string
	}{
		{"00::1a:2b:3c:4d:5e", "expected 6 octets, got 7"},
		{"00:1a:2b:3c:4d:5e:", "expected 6 octets, got 7"},
		{"001a:2b3c:4d5e", "expected 6 octets, got 3"},
		{"001a2b-3c4d5e", "expected 6 octets, got 2"},
		{"0-0:1a2b3c4d5e", "mixed octet separators"},
		{"00:1a:2b-3c:4d:5e", "mixed octet separators"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.mac, func(t *testing.T) {
			mac, err := NormalizeMAC(testCase.mac)
			require.Empty(t, mac)

			var formatErr *FormatError
			require.True(t, errors.As(err, &formatErr))
			require.Equal(t, testCase.mac, formatErr.Value)
			require.Equal(t, testCase.reason, formatErr.Reason)
		})
	}
}

// Test that the MAC addresses without colons and hyphens are accepted.
func TestNormalizeMACWithoutOctetSeparators(t *testing.T) {
	for _, input := range []string{"001a.2b3c.4d5e", "001A2B3C4D5E", "00 1a 2b 3c 4d 5e"} {
		mac, err := NormalizeMAC(input)
		require.NoError(t, err, input)
		require.Equal(t, "00:1a:2b:3c:4d:5e", mac)
	}
}

// Test conversion between MAC addresses and binary identifiers.
func TestMACBytes(t *testing.T) {
	identifier, err := MACToBytes("00:1a:2b:3c:4d:5e")
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x1a, 0x2b, 0x3c, 0x4d, 0x5e}, identifier)

	mac, err := BytesToMAC(identifier)
	require.NoError(t, err)
	require.Equal(t, "00:1a:2b:3c:4d:5e", mac)

	_, err = MACToBytes("00:1a")
	require.Error(t, err)

	_, err = BytesToMAC([]byte{1, 2, 3})
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	require.Equal(t, "010203", formatErr.Value)
}

// Test IPv4 address to integer conversions.
func TestIPToInteger(t *testing.T) {
	value, err := IPToInteger("10.0.0.50")
	require.NoError(t, err)
	require.EqualValues(t, 0x0a000032, value)

	value, err = IPToInteger("255.255.255.255")
	require.NoError(t, err)
	require.EqualValues(t, 0xffffffff, value)

	value, err = IPToInteger("0.0.0.0")
	require.NoError(t, err)
	require.Zero(t, value)

	require.Equal(t, "10.0.0.50", IntegerToIP(0x0a000032))
	require.Equal(t, "192.0.2.1", IntegerToIP(3221225985))
}

// Test that malformed IPv4 addresses are rejected.
func TestIPToIntegerInvalid(t *testing.T) {
	for _, ip := range []string{"", "10.0.0", "10.0.0.256", "10.0.0.1.2", "a.b.c.d", "2001:db8::1", "10.0.0.-1"} {
		_, err := IPToInteger(ip)
		var formatErr *FormatError
		require.True(t, errors.As(err, &formatErr), ip)
		require.Equal(t, IPv4AddressKind, formatErr.Kind)
	}
}

// Test that the IPv4 conversions round-trip.
func TestIPRoundTrip(t *testing.T) {
	for _, ip := range []string{"0.0.0.0", "10.0.0.1", "192.0.2.254", "255.255.255.255"} {
		value, err := IPToInteger(ip)
		require.NoError(t, err)
		require.Equal(t, ip, IntegerToIP(value))
	}
}

// Test converting IPv4 addresses to hex strings.
func TestIPToHex8(t *testing.T) {
	hex, err := IPToHex8("10.0.0.1")
	require.NoError(t, err)
	require.Equal(t, "0a000001", hex)

	hex, err = IPToHex8("0.0.0.0")
	require.NoError(t, err)
	require.Equal(t, "00000000", hex)

	_, err = IPToHex8("10.0.0")
	require.Error(t, err)
}

// Test packing the lists of IPv4 addresses and unpacking them.
func TestIPListHex(t *testing.T) {
	hex, err := IPListToHex([]string{"10.0.0.1", "8.8.8.8"})
	require.NoError(t, err)
	require.Equal(t, "0a00000108080808", hex)

	ips, err := HexToIPList(hex)
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.1", "8.8.8.8"}, ips)

	ips, err = HexToIPList("0A000001")
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.1"}, ips)

	hex, err = IPListToHex(nil)
	require.NoError(t, err)
	require.Empty(t, hex)

	ips, err = HexToIPList("")
	require.NoError(t, err)
	require.Empty(t, ips)

	_, err = IPListToHex([]string{"10.0.0.1", "bogus"})
	require.Error(t, err)
}

// Test that the hex strings with unexpected length or content are rejected.
func TestHexToIPListInvalid(t *testing.T) {
	_, err := HexToIPList("0a00000")
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	require.Equal(t, HexStringKind, formatErr.Kind)
	require.Contains(t, formatErr.Error(), "not a multiple of 8")

	_, err = HexToIPList("0a00000g")
	require.True(t, errors.As(err, &formatErr))
}

// Test that the list packing round-trips.
func TestIPListRoundTrip(t *testing.T) {
	lists := [][]string{
		{"10.0.0.1"},
		{"10.0.0.1", "10.0.0.2", "192.0.2.53"},
		{"0.0.0.0", "255.255.255.255"},
	}
	for _, list := range lists {
		hex, err := IPListToHex(list)
		require.NoError(t, err)
		require.Len(t, hex, 8*len(list))
		back, err := HexToIPList(hex)
		require.NoError(t, err)
		require.Equal(t, list, back)
	}
}

// Test the FormatError message.
func TestFormatErrorMessage(t *testing.T) {
	err := NewFormatError(IPv4AddressKind, "1.2.3", "not a dotted-decimal address")
	require.EqualError(t, err, "invalid IPv4 address '1.2.3': not a dotted-decimal address")
}
