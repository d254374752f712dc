package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Generates miniature list files in the data directory so the server
// and worker can run offline: the refresh pipeline falls back to these
// cached files when the download URLs are unreachable. The records are
// real published listings, trimmed to a handful per source.
//
//	go run scripts/make_fixtures.go [data-dir]
func main() {
	dir := "./data"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	fmt.Println("🔄 Writing list fixtures to", dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatal("Error creating data dir:", err)
	}

	writeCSV(dir, "sdn.csv", ',', [][]string{
		{"22790", "MADURO MOROS, Nicolas", "individual", "VENEZUELA", "President of the Bolivarian Republic of Venezuela", "-0-", "-0-", "-0-", "-0-", "-0-", "-0-", "DOB 23 Nov 1962; POB Caracas, Venezuela; Gender Male; cedula No. 5892464 (Venezuela)"},
		{"36963", "GAZPROMBANK JOINT STOCK COMPANY", "-0-", "RUSSIA-EO14024", "-0-", "-0-", "-0-", "-0-", "-0-", "-0-", "-0-", "Tax ID No. 7744001497 (Russia); Registration Number 1027700167110 (Russia)"},
		{"37428", "OCEAN DREAM", "vessel", "DPRK3", "-0-", "HMZT9", "Cargo", "6422", "-0-", "North Korea", "Ocean Maritime Management Company", "IMO 8133530; MMSI 445123000; Linked To: OCEAN MARITIME MANAGEMENT COMPANY, LIMITED."},
		{"44341", "SECONDEYE SOLUTION", "-0-", "CYBER2", "-0-", "-0-", "-0-", "-0-", "-0-", "-0-", "-0-", "Digital Currency Address - XBT 1EpMiZkQVekM5ij12nMiEwttFPcDK9XhX6; Email Address support@secondeyesolution.com; secondary sanctions risk"},
	})

	writeCSV(dir, "alt.csv", ',', [][]string{
		{"22790", "1", "aka", "MADURO, Nicolas"},
		{"22790", "2", "fka", "MADURO GUERRA, Nicolas"},
		{"36963", "3", "aka", "GAZPROMBANK AO"},
		{"36963", "4", "aka", "BANK GPB"},
	})

	writeCSV(dir, "add.csv", ',', [][]string{
		{"22790", "1", "Palacio de Miraflores", "Caracas, Distrito Capital 1010", "Venezuela"},
		{"36963", "2", "16 Nametkina Street Bldg 1", "Moscow 117420", "Russia"},
	})

	writeCSV(dir, "consolidated.csv", ',', [][]string{
		{"source", "entity_number", "name", "type", "programs", "addresses", "alt_names", "ids", "dates_of_birth", "title", "call_sign", "vessel_flag", "vessel_owner", "remarks"},
		{"Entity List (EL) - Bureau of Industry and Security", "e1b020e2", "Beijing Topsec Network Security Technology Co. Ltd.", "", "EL", "No. 2 Building Shangdi Information Industry Base, Haidian District, Beijing, China", "Topsec; Beijing Topsec", "", "", "", "", "", "", "For acting contrary to the national security interests of the United States"},
		{"Specially Designated Nationals (SDN) - Treasury Department", "22790", "MADURO MOROS, Nicolas", "individual", "VENEZUELA", "Caracas, Venezuela", "", "", "1962-11-23", "", "", "", "", "mirrored from sdn.csv"},
		{"Non-SDN Menu-Based Sanctions List (NS-MBS List) - Treasury Department", "39552", "SOVCOMFLOT", "", "UKRAINE-EO13662", "Moscow, Russia", "PAO Sovcomflot", "Registration Number, 1027739028712, Russia", "", "", "", "", "", ""},
	})

	writeCSV(dir, "eu_consolidated.csv", ';', [][]string{
		{"fileGenerationDate", "entity_logicalid", "entity_eu_referencenumber", "entity_unitedationid", "entity_designationdate", "entity_designationdetails", "entity_remark", "entity_subjecttype", "entity_regulationprogramme", "namealias_lastname", "namealias_firstname", "namealias_middlename", "namealias_wholename", "namealias_gender", "namealias_title", "address_city", "address_street", "address_pobox", "address_zipcode", "address_region", "address_countryiso2code", "address_countrydescription", "birthdate_birthdate", "birthdate_year", "identification_number", "identification_typecode", "identification_countryiso2code"},
		{"25/07/2026", "13618", "EU.3624.13", "", "2014-07-31", "", "", "enterprise", "UKR", "", "", "", "DOBROLET AIRLINES", "", "", "Moscow", "International Highway, Building 31, 141411", "", "", "", "RU", "RUSSIAN FEDERATION", "", "", "", "", ""},
		{"25/07/2026", "13618", "EU.3624.13", "", "2014-07-31", "", "", "enterprise", "UKR", "", "", "", "DOBROLYOT", "", "", "", "", "", "", "", "", "", "", "", "", "", ""},
		{"25/07/2026", "86801", "EU.8235.71", "", "2022-02-26", "", "Former President of the Russian Federation", "person", "UKR", "MEDVEDEV", "Dmitry", "Anatolyevich", "Dmitry Anatolyevich MEDVEDEV", "M", "", "", "", "", "", "", "", "", "1965-09-14", "", "", "", ""},
	})

	writeCSV(dir, "ConList.csv", ',', [][]string{
		{"Last Updated:25/07/2026"},
		{"Name 6", "Name 1", "Name 2", "Name 3", "Name 4", "Name 5", "Title", "Name Non-Latin Script", "Non-Latin Script Type", "Non-Latin Script Language", "DOB", "Town of Birth", "Country of Birth", "Nationality", "Passport Number", "Passport Details", "NI Number", "NI Details", "Position", "Address 1", "Address 2", "Address 3", "Address 4", "Address 5", "Address 6", "Post/Zip Code", "Country", "Other Information", "Group Type", "Alias Type", "Alias Quality", "Regime", "Listed On", "UK Sanctions List Date Designated", "Last Updated", "Group ID"},
		{"LUKASHENKO", "Alexander", "Grigoryevich", "", "", "", "", "", "", "", "30/08/1954", "Kopys", "Belarus", "Belarus", "", "", "", "", "President of Belarus", "", "", "", "", "Minsk", "", "", "Belarus", "President of the Republic of Belarus", "Individual", "Primary name", "", "Belarus", "18/05/2006", "31/12/2020", "14/06/2022", "7420"},
		{"LUKASHENKA", "Alyaksandr", "Ryhoravich", "", "", "", "", "", "", "", "30/08/1954", "", "", "Belarus", "", "", "", "", "", "", "", "", "", "", "", "", "", "", "Individual", "Good quality a.k.a.", "", "Belarus", "18/05/2006", "31/12/2020", "14/06/2022", "7420"},
		{"", "HOLDING COMPANY BELAZ", "", "", "", "", "", "", "", "", "", "", "", "", "", "", "", "", "", "40 let Oktyabrya Street 4", "", "", "", "Zhodino", "Minsk Region", "222161", "Belarus", "State-owned vehicle manufacturer", "Entity", "Primary name", "", "Belarus", "09/08/2021", "09/08/2021", "09/08/2021", "14147"},
	})

	fmt.Println("✅ Fixtures ready: sdn.csv alt.csv add.csv consolidated.csv eu_consolidated.csv ConList.csv")
	fmt.Println("📁 Point data.dir at", dir, "and the refresh pipeline serves from these whenever a download fails")
}

func writeCSV(dir, name string, comma rune, rows [][]string) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		log.Fatal("Error creating ", name, ": ", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = comma
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			log.Fatal("Error writing ", name, ": ", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal("Error flushing ", name, ": ", err)
	}
	fmt.Printf("✅ %s (%d rows)\n", name, len(rows))
}
