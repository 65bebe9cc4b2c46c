// Package licensing contiene las reglas puras del ciclo de vida de licencias:
// formato de la clave y transiciones de estado. No hace I/O.
package licensing

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

// KeyPrefix prefijo constante de todas las claves emitidas.
const KeyPrefix = "CV"

const (
	keyAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	blockLen    = 4
)

var keyPattern = regexp.MustCompile(`^[A-Z]+-\d{4}-[0-9A-Z]{4}-[0-9A-Z]{4}$`)

// GenerateKey devuelve una clave PREFIJO-AÑO-XXXX-XXXX con dos bloques aleatorios base36.
// La unicidad es probabilística; la restricción única de la tabla es la que manda.
func GenerateKey(prefix string, now time.Time) (string, error) {
	a, err := randomBlock()
	if err != nil {
		return "", err
	}
	b, err := randomBlock()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%s-%s", prefix, now.Year(), a, b), nil
}

// IsWellFormedKey valida el formato de una clave recibida del cliente.
func IsWellFormedKey(key string) bool {
	return keyPattern.MatchString(key)
}

func randomBlock() (string, error) {
	buf := make([]byte, blockLen)
	max := big.NewInt(int64(len(keyAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("licensing: generar bloque aleatorio: %w", err)
		}
		buf[i] = keyAlphabet[n.Int64()]
	}
	return string(buf), nil
}
