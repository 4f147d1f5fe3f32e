package dhcpdconfig

import (
	"io"
	"os"
	"strings"

	"github.com/asaskevich/govalidator"
	errors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	migrateutil "github.com/josh73/migrate-host-reservations-to-kea-mysql/util"
)

// Names of the host block statements carrying the reservation data.
const (
	HardwareEthernetField = "hardware ethernet"
	FixedAddressField     = "fixed-address"
)

// A host block found in the configuration.
type hostBlock struct {
	name    token
	opening token
	// Tokens between the braces.
	body    []token
	closing token
}

// Parser extracts the host reservations from the ISC DHCP server
// configuration. Only the host blocks are interpreted; the rest of the
// configuration is checked for the balanced braces and skipped.
type Parser struct{}

// Instantiates a new parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parses the dhcpd configuration file.
func (p *Parser) ParseFile(filename string) ([]Reservation, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dhcpd config file: %s", filename)
	}
	defer file.Close()
	return p.Parse(filename, file)
}

// Parses the dhcpd configuration and returns the reservations in the
// order of their appearance. Any error aborts the whole extraction.
func (p *Parser) Parse(filename string, fileReader io.Reader) ([]Reservation, error) {
	data, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dhcpd config file: %s", filename)
	}
	text := string(data)
	tokens, err := tokenize(filename, text)
	if err != nil {
		return nil, err
	}
	blocks, err := splitHostBlocks(tokens)
	if err != nil {
		return nil, err
	}
	reservations := []Reservation{}
	for _, block := range blocks {
		reservation, err := extractReservation(text, block)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *reservation)
	}
	log.WithFields(log.Fields{
		"file":         filename,
		"reservations": len(reservations),
	}).Debug("Parsed dhcpd configuration")
	return reservations, nil
}

// Finds the host blocks in the token stream. The host block is recognized
// when the "host" keyword starts a statement and it is followed by a name
// and an opening brace. The host blocks may be nested in other blocks
// (e.g., subnet or group) but they must not contain any blocks.
func splitHostBlocks(tokens []token) ([]hostBlock, error) {
	var (
		blocks []hostBlock
		opened []token
	)
	statementStart := true
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if statementStart && tok.isKeyword("host") && i+2 < len(tokens) &&
			tokens[i+1].kind != punctToken && tokens[i+2].isPunct("{") {
			block, end, err := readHostBlock(tokens, i)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, *block)
			i = end
			continue
		}
		switch {
		case tok.isPunct("{"):
			opened = append(opened, tok)
			statementStart = true
		case tok.isPunct("}"):
			if len(opened) == 0 {
				return nil, newParseError(tok.pos, "unexpected '}'")
			}
			opened = opened[:len(opened)-1]
			statementStart = true
		case tok.isPunct(";"):
			statementStart = true
		default:
			statementStart = false
		}
	}
	if len(opened) > 0 {
		return nil, newParseError(opened[len(opened)-1].pos, "unterminated block")
	}
	return blocks, nil
}

// Reads the host block starting at the specified index (pointing to the
// "host" keyword). It returns the index of the closing brace.
func readHostBlock(tokens []token, start int) (*hostBlock, int, error) {
	block := &hostBlock{
		name:    tokens[start+1],
		opening: tokens[start+2],
	}
	for i := start + 3; i < len(tokens); i++ {
		switch {
		case tokens[i].isPunct("{"):
			return nil, 0, newParseError(tokens[i].pos, "nested block in host %s is not supported", block.name.unquoted())
		case tokens[i].isPunct("}"):
			block.body = tokens[start+3 : i]
			block.closing = tokens[i]
			return block, i, nil
		}
	}
	return nil, 0, newParseError(block.opening.pos, "unterminated host block %s", block.name.unquoted())
}

// Splits the host block body into statements terminated with semicolons.
// The terminating semicolon is returned along with each statement.
func splitStatements(body []token) ([][]token, []token, error) {
	var (
		statements [][]token
		ends       []token
		current    []token
	)
	for _, tok := range body {
		if tok.isPunct(";") {
			if len(current) > 0 {
				statements = append(statements, current)
				ends = append(ends, tok)
			}
			current = nil
			continue
		}
		current = append(current, tok)
	}
	if len(current) > 0 {
		return nil, nil, newParseError(current[0].pos, "missing ';' after '%s' statement", current[0].value)
	}
	return statements, ends, nil
}

// Returns the verbatim source text between the specified token and the
// statement terminator.
func sourceText(text string, from, end token) string {
	return strings.TrimSpace(text[from.pos.Offset:end.pos.Offset])
}

// Creates a reservation from the host block.
func extractReservation(text string, block hostBlock) (*Reservation, error) {
	reservation := &Reservation{
		Hostname: block.name.unquoted(),
		Options:  make(map[string]string),
	}
	logger := log.WithField("host", reservation.Hostname)
	if !govalidator.IsDNSName(reservation.Hostname) {
		logger.Warn("Host name is not a valid DNS name")
	}
	statements, ends, err := splitStatements(block.body)
	if err != nil {
		return nil, err
	}
	var macs, addresses []string
	for i, statement := range statements {
		keyword := statement[0]
		switch {
		case keyword.isKeyword("hardware"):
			if len(statement) < 2 || !statement[1].isKeyword("ethernet") {
				logger.WithField("statement", sourceText(text, keyword, ends[i])).
					Debug("Skipping non-ethernet hardware statement")
				continue
			}
			if len(statement) != 3 {
				return nil, newParseError(keyword.pos, "malformed hardware ethernet statement in host %s", reservation.Hostname)
			}
			macs = append(macs, statement[2].value)
		case keyword.isKeyword("fixed-address"):
			if len(statement) < 2 {
				return nil, newParseError(keyword.pos, "missing fixed-address value in host %s", reservation.Hostname)
			}
			addresses = append(addresses, sourceText(text, statement[1], ends[i]))
		case keyword.isKeyword("option"):
			if len(statement) < 3 {
				return nil, newParseError(keyword.pos, "malformed option statement in host %s", reservation.Hostname)
			}
			name := statement[1].value
			value := sourceText(text, statement[2], ends[i])
			if previous, exists := reservation.Options[name]; exists {
				logger.WithFields(log.Fields{
					"option":   name,
					"previous": previous,
					"value":    value,
				}).Warn("Option specified more than once; using the last value")
			}
			reservation.Options[name] = value
		default:
			logger.WithField("statement", keyword.value).Debug("Ignoring host statement")
		}
	}

	mac, err := singleField(reservation.Hostname, HardwareEthernetField, macs)
	if err != nil {
		return nil, err
	}
	if reservation.MAC, err = migrateutil.NormalizeMAC(mac); err != nil {
		return nil, errors.WithMessagef(err, "host %s", reservation.Hostname)
	}
	address, err := singleField(reservation.Hostname, FixedAddressField, addresses)
	if err != nil {
		return nil, err
	}
	ip, err := migrateutil.IPToInteger(address)
	if err != nil {
		return nil, errors.WithMessagef(err, "host %s", reservation.Hostname)
	}
	reservation.IPv4 = migrateutil.IntegerToIP(ip)
	return reservation, nil
}

// Returns the only value of the field or an error if there is none or
// more than one.
func singleField(hostname, field string, values []string) (string, error) {
	switch len(values) {
	case 0:
		return "", &MissingFieldError{Hostname: hostname, Field: field}
	case 1:
		return values[0], nil
	default:
		return "", &MissingFieldError{Hostname: hostname, Field: field, Ambiguous: true}
	}
}
