package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// HashIdentity aplica o hash de mão única usado como identidade de usuário
// nas tabelas de visibilidade. Nenhuma saída do serviço guarda e-mail em
// texto claro.
func HashIdentity(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(normalized))

	return base64.StdEncoding.EncodeToString(sum[:])
}
