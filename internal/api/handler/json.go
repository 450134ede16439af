package handler

import jsoniter "github.com/json-iterator/go"

// Todas as respostas e corpos da API passam por aqui; a configuração é
// compatível com a stdlib, então trocar o encoder não muda o contrato.
var json = jsoniter.ConfigCompatibleWithStandardLibrary
